// Package conlog turns raw console output from the game client into typed
// line records and fans them out to registered listeners.
//
// The package has three parts:
//
//  1. Line records: a closed union of typed structs, one per console line
//     kind the world model cares about (lobby headers, status rows, chat,
//     kill notifications, ...). Kinds outside this set never leave the
//     parser.
//
//  2. Parser: a regex tokenizer implementing the ParseFunc boundary. The
//     rest of the module only depends on ParseFunc, so an embedder can
//     substitute its own tokenizer.
//
//  3. Dispatcher: splits raw text chunks on line feeds, parses each line
//     with the session's current logical timestamp, and notifies listeners
//     via the parsed or unparsed callback. Dispatch iterates a snapshot of
//     the listener set, so listeners may register or remove themselves from
//     inside a callback without affecting the in-flight dispatch.
//
//  4. Tailer: follows the console.log file on disk via fsnotify and hands
//     appended chunks to a sink, surviving truncation and late file
//     creation.
package conlog
