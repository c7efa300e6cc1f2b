// Package section builds the alphabetic section index of a list.
//
// An Index merges the section runs reported by a loader with the canonical
// alphabet of the active locale, so every expected bucket exists even when it
// has no rows. Labels are compared with a loose collator: case, width and
// accent variants are the same bucket.
package section
