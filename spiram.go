// This file is part of spiram.
//
// spiram is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spiram is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spiram.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/environment"
	"github.com/jetsetilly/spiram/hardware"
	"github.com/jetsetilly/spiram/hardware/ospi/bridge"
	"github.com/jetsetilly/spiram/hardware/preferences"
	"github.com/jetsetilly/spiram/hardware/psram"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/modalflag"
	"github.com/jetsetilly/spiram/performance"
	"github.com/jetsetilly/spiram/prefs"
	"github.com/jetsetilly/spiram/statsview"
	"github.com/jetsetilly/spiram/version"
)

func main() {
	// #ctrlc
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		<-intChan
		fmt.Println("\r")
		os.Exit(0)
	}()

	os.Exit(launch(os.Args[1:]))
}

// launch returns the value to be used with os.Exit()
func launch(args []string) int {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("TEST", "DUMP", "SERVE", "PREFS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "TEST":
		err = selftest(md)

	case "DUMP":
		err = dump(md)

	case "SERVE":
		err = serve(md)

	case "PREFS":
		err = showPrefs(md)

	case "VERSION":
		fmt.Println(version.String())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// flags shared by the modes that create a system
type systemFlags struct {
	bridge    *string
	tty       *bool
	baud      *int
	target    *string
	part      *string
	size      *int
	warm      *bool
	log       *bool
	prefs     *string
	statsview *bool
	memviz    *string
}

func addSystemFlags(md *modalflag.Modes, bridged bool) *systemFlags {
	f := &systemFlags{}
	if bridged {
		f.bridge = md.AddString("bridge", "", "serial port of bridge. AUTO to detect. tcp:host:port for a network bridge")
		f.tty = md.AddBool("tty", false, "open the bridge serial port as a terminal device")
		f.baud = md.AddInt("baud", 0, "baud rate of the bridge serial port")
	}
	f.target = md.AddString("target", "", "target microcontroller")
	f.part = md.AddString("part", "", "serial RAM part (emulation only)")
	f.size = md.AddInt("size", 0, "size of the serial RAM in bytes")
	f.warm = md.AddBool("warm", false, "emulated RAM starts in QPI mode, as after a warm reboot")
	f.log = md.AddBool("log", false, "echo log to stdout")
	f.prefs = md.AddString("prefs", "", "preferences to override. eg. \"spiram.clear::false; spiram.timeout::100\"")
	f.statsview = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	f.memviz = md.AddString("memviz", "", "write a graph of the system after initialisation to the named dot file")
	return f
}

// environment creates the preferences from the flags and the preferences
// file.
func (f *systemFlags) environment() (*environment.Environment, error) {
	if *f.log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *f.prefs != "" {
		prefs.PushCommandLineStack(*f.prefs)
	}

	p, err := preferences.NewPreferences("")
	if err != nil {
		return nil, err
	}

	if unused := prefs.PopCommandLineStack(); unused != "" {
		fmt.Printf("! unused preferences: %s\n", unused)
	}

	if *f.target != "" {
		if err := p.Target.Set(strings.ToUpper(*f.target)); err != nil {
			return nil, err
		}
	}
	if *f.part != "" {
		if err := p.Part.Set(strings.ToUpper(*f.part)); err != nil {
			return nil, err
		}
	}
	if *f.size != 0 {
		if err := p.Size.Set(*f.size); err != nil {
			return nil, err
		}
	}
	if f.baud != nil && *f.baud != 0 {
		if err := p.BridgeBaud.Set(*f.baud); err != nil {
			return nil, err
		}
	}
	if f.bridge != nil && *f.bridge != "" {
		if err := p.BridgePort.Set(*f.bridge); err != nil {
			return nil, err
		}
	}

	return environment.NewEnvironment(environment.MainDriver, p)
}

// system creates an emulated system, or a bridged system if a bridge port is
// set in the preferences.
func (f *systemFlags) system(env *environment.Environment) (*hardware.System, error) {
	port := env.Prefs.BridgePort.String()
	if port == "" {
		powerOn := psram.SPI
		if *f.warm {
			powerOn = psram.QPI
		}
		return hardware.NewEmulatedSystem(env, powerOn)
	}

	var p bridge.Port
	var err error

	baud := env.Prefs.BridgeBaud.Get().(int)

	switch {
	case strings.HasPrefix(port, "tcp:"):
		p, err = bridge.Dial(strings.TrimPrefix(port, "tcp:"))

	default:
		if strings.EqualFold(port, "AUTO") {
			port, err = bridge.DetectPort(env)
			if err != nil {
				return nil, err
			}
			fmt.Printf("! using bridge on %s\n", port)
		}
		if f.tty != nil && *f.tty {
			p, err = bridge.OpenTTY(env, port, baud)
		} else {
			p, err = bridge.OpenSerial(env, port, baud)
		}
	}
	if err != nil {
		return nil, err
	}

	return hardware.NewBridgedSystem(env, p)
}

func (f *systemFlags) launchStatsview() func() {
	if !*f.statsview {
		return func() {}
	}
	if !statsview.Available() {
		fmt.Println("! stats server not available in this build")
		return func() {}
	}
	return statsview.Launch(os.Stdout)
}

func (f *systemFlags) writeMemviz(sys *hardware.System) error {
	if *f.memviz == "" {
		return nil
	}

	fn := *f.memviz
	if !strings.HasSuffix(fn, ".dot") {
		fn = fmt.Sprintf("%s.dot", fn)
	}

	out, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer out.Close()

	memviz.Map(out, sys)

	return nil
}

func selftest(md *modalflag.Modes) error {
	md.NewMode()

	f := addSystemFlags(md, true)
	profile := md.AddString("profile", "", "write cpu and memory profiles with the named prefix")
	timed := md.AddBool("timed", false, "show how long the self test took")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	env, err := f.environment()
	if err != nil {
		return err
	}

	defer f.launchStatsview()()

	sys, err := f.system(env)
	if err != nil {
		return err
	}
	defer sys.Close()

	run := func() error {
		sys.RAM.Initialise()

		// the self test may already have been run by Initialise()
		if env.Prefs.StartupTest.Get().(bool) {
			return nil
		}

		if !*timed {
			sys.RAM.SelfTest()
			return nil
		}

		// every address is written and read three times
		return performance.Timed(os.Stdout, "self test", int(sys.RAM.Size())*6, func() error {
			sys.RAM.SelfTest()
			return nil
		})
	}

	if *profile != "" {
		err = performance.ProfileCPU(fmt.Sprintf("%s.cpu.profile", *profile), run)
		if err != nil {
			return err
		}
		err = performance.ProfileMem(fmt.Sprintf("%s.mem.profile", *profile))
	} else {
		err = run()
	}
	if err != nil {
		return err
	}

	if err := f.writeMemviz(sys); err != nil {
		return err
	}

	sys.RAM.Dmesg(os.Stdout)

	if sys.RAM.Record().Failed() {
		return fmt.Errorf("self test failed")
	}

	return nil
}

func dump(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("Arguments are the address and the number of bytes to dump. Address is an offset into the RAM.")

	f := addSystemFlags(md, true)
	fill := md.AddInt("fill", -1, "fill the dumped range with this byte before dumping")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("address and length required for %s mode", md)
	}

	addr, err := strconv.ParseUint(md.GetArg(0), 0, 32)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	n, err := strconv.ParseUint(md.GetArg(1), 0, 32)
	if err != nil {
		return fmt.Errorf("length: %w", err)
	}

	env, err := f.environment()
	if err != nil {
		return err
	}

	defer f.launchStatsview()()

	sys, err := f.system(env)
	if err != nil {
		return err
	}
	defer sys.Close()

	if !sys.RAM.QuadMode() {
		sys.RAM.Dmesg(os.Stdout)
		return fmt.Errorf("serial RAM not in quad mode")
	}

	if *fill >= 0 {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(*fill)
		}
		if err := sys.RAM.Write(uint32(addr), data); err != nil {
			return err
		}
	}

	data, err := sys.RAM.Read(uint32(addr), int(n))
	if err != nil {
		return err
	}

	if err := f.writeMemviz(sys); err != nil {
		return err
	}

	d := hex.Dumper(os.Stdout)
	defer d.Close()
	_, err = d.Write(data)

	return err
}

func serve(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("Serve an emulated board to bridged instances of this program.")

	f := addSystemFlags(md, false)
	addr := md.AddString("addr", "localhost:6502", "address to listen on")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	env, err := f.environment()
	if err != nil {
		return err
	}

	defer f.launchStatsview()()

	sys, err := f.system(env)
	if err != nil {
		return err
	}
	defer sys.Close()

	if !sys.IsEmulated() {
		return fmt.Errorf("cannot serve a bridged system")
	}

	err = sys.Responder("emulated "+env.Prefs.Part.String()).Listen(*addr, func(a net.Addr) {
		fmt.Printf("! serving %s on %s\n", sys.Map.Model, a)
	})
	if err != nil && !curated.IsAny(err) {
		return fmt.Errorf("serve: %w", err)
	}

	return err
}

func showPrefs(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("Show the preferences. With -save the preferences are written to disk.")

	override := md.AddString("prefs", "", "preferences to set. eg. \"spiram.size::0x200000\"")
	save := md.AddBool("save", false, "save the preferences")
	defaults := md.AddBool("defaults", false, "reset preferences to default values")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *override != "" {
		prefs.PushCommandLineStack(*override)
	}

	pr, err := preferences.NewPreferences("")
	if err != nil {
		return err
	}

	if unused := prefs.PopCommandLineStack(); unused != "" {
		return fmt.Errorf("unknown preferences: %s", unused)
	}

	if *defaults {
		pr.SetDefaults()
	}

	if *save {
		if err := pr.Save(); err != nil {
			return err
		}
	}

	fmt.Print(pr.String())

	return nil
}
