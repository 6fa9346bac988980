// Package pagination flattens cursor-paged list endpoints into a single
// lazy iter.Seq2.
//
// Pages are fetched one at a time, only after the previous page has been
// consumed, and the sequence ends when a page carries no next cursor. A
// cancelled context ends the sequence quietly before the next fetch;
// errors from a fetch are yielded once and end it.
package pagination
