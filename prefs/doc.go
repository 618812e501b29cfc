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

// Package prefs facilitates the storage of preferential values in the spiram
// tools. It is a key-value store whose values are typed (Bool, Int, Float
// or String) and which can be saved to and loaded from disk with the
// Disk type:
//
//	var size prefs.Int
//	dsk, _ := prefs.NewDisk(pth)
//	dsk.Add("spiram.size", &size)
//	dsk.Load()
//
// The file format is a simple list of "key :: value" lines preceded by a
// warning line. More than one Disk instance can share the same file; saving
// one instance does not disturb the keys belonging to another.
//
// Values can be overridden from the command line with the command line stack.
// A string of the form:
//
//	"spiram.size::2097152; spiram.clear::false"
//
// is pushed with PushCommandLineStack() and any matching key is applied (and
// consumed) the next time a Disk is loaded.
package prefs
