// Package textutil scores how similar two short strings are.
//
// Scores range from 0 to 100 and follow the weighted-ratio family: a full
// edit-distance ratio, a best-window partial ratio when the lengths differ
// a lot, and token sort/set ratios for reordered words. Inputs are case
// folded, and a second pass maps characters that OCR commonly confuses with
// digits so that "H7OO" and "H700" compare as near-identical.
//
// Extract ranks a list of choices against a query with a cutoff and limit.
package textutil
