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

// Package curated wraps the plain Go error type with a pattern that can be
// tested for. Curated errors are created with Errorf(), which takes the same
// arguments as fmt.Errorf(). The pattern string is retained and is what the
// Is() and Has() functions compare against.
//
//	e := curated.Errorf("spiram: read: %v", err)
//
//	if curated.Is(e, "spiram: read: %v") {
//		...
//	}
//
// Has() is similar to Is() but searches the entire chain of curated errors
// that have been wrapped with a %v verb:
//
//	f := curated.Errorf("direct access: %v", e)
//	curated.Has(f, "spiram: read: %v")  // true
//	curated.Is(f, "spiram: read: %v")   // false
//
// Sentinel errors are expressed as exported pattern constants. For example,
// the ospi package exports the pattern for a bus timeout and callers check for
// it with Has().
//
// The Error() implementation normalises the message chain so that adjacent
// duplicate parts are removed. Chains are composed of parts separated by ": "
// so a curated error wrapping another curated error with the same leading part
// is printed once:
//
//	spiram: spiram: timeout    ->    spiram: timeout
//
// Curated errors also implement Unwrap() so that the standard library
// errors.Is() and errors.As() functions can see through them to any non-curated
// error passed as one of the values.
package curated
