// Package assets loads glTF models for the game client.
//
// Only a summary of each document is kept: the client draws in a terminal
// and needs the structure of a model, not its buffers.
package assets
