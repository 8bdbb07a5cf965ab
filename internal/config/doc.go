// Package config holds the plugin's settings.
//
// Settings live in a flat key-value Store keyed "group.name", the same
// shape the game client's configuration manager uses:
//
//	camerakeys.zoom            = 500
//	camerakeys.zoomKey         = c
//	camerakeys.activationType  = Hold
//	runelite.keyremappingplugin = false
//
// Raw values are strings. Settings() decodes them into a typed snapshot;
// a value that does not decode falls back to its default and is reported
// by Problems(). The store never holds an invalid value for long: Set
// rejects it with a *ValidationError.
//
// # Persistence
//
// A Store may be attached to a Backend. The loader package reads and writes
// a TOML settings file and the profile package keeps named profiles in a
// SQLite database. The watcher package reloads the TOML file on change.
//
// # Change Notification
//
// Every Set, Unset and Load is published through the notify package:
//
//	sub := store.Subscribe(func(c notify.Change) {
//	    fmt.Println(c.Key, c.OldValue, "->", c.NewValue)
//	})
//	defer sub.Unsubscribe()
//
// Observers run on the goroutine that made the change.
package config
