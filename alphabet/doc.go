// Package alphabet provides canonical section alphabets for list indexes.
//
// An alphabet lists the buckets a fast-scroll index always shows for a locale,
// in collation order, and assigns display names to buckets. The package
// includes:
//
//   - Latin: A-Z
//   - Greek: Α-Ω with Latin fallback
//   - Cyrillic: А-Я with Latin fallback
//   - Japanese: full-width Ａ-Ｚ and the kana rows あ-わ
//
// Names outside every script of an alphabet go to the overflow bucket "#".
package alphabet
