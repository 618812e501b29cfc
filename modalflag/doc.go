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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a way of handling program modes and allows different
// flags for each mode.
//
// Rather than passing the arguments to Parse(), arguments are first given to
// NewArgs(). The reason for this difference is that parsing can then proceed
// in layers, one layer per mode:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("TEST", "DUMP", "PREFS")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "DUMP":
//		md.NewMode()
//		memviz := md.AddBool("memviz", false, "write device graph")
//		...
//	}
//
// The first sub-mode in the list is the default mode, selected when the next
// argument is not one of the listed modes. Sub-mode comparison is case
// insensitive. Help is printed automatically when the -help flag is found,
// listing the flags and the sub-modes of the current layer.
package modalflag
