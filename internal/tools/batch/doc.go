// Package batch runs one API operation per item for MCP tools that accept
// several targets at once, such as updating the status of many guests.
//
// Items are processed in order. A failing item does not stop the batch; its
// error is reported next to the results of the other items.
package batch
