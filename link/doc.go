// Package link combines assembled object modules into a single
// executable memory image. Modules are placed end to end, relocatable
// words are adjusted for each module's base address, and import
// references are patched with the absolute values of the matching
// exports.
package link
