// Package dataset decodes scouting exports into model.Dataset snapshots and
// provides the sources the application loads them from.
//
// Documents map team numbers to match identifiers to match fields, either at
// the top level or under a "root" key. Field values may be plain JSON or
// Firestore typed values such as {"integerValue": "12"}.
package dataset
