// Package mongo stores job results in MongoDB.
//
// Every result becomes one document in the collection named after the
// minion:
//
//	{"<jid>": <return>, "fun": "<function>", "out": "<outputter>"}
//
// Settings are read from the mongo namespace, optionally overridden by an
// alternate namespace named in the result:
//
//	mongo.db: salt
//	mongo.host: db1.example.com
//	mongo.port: 27017
//	alternative.mongo:
//	  db: archive
//
// The read helpers (GetJID, GetFun, GetMinions, GetJIDs) scan every
// collection of the database; they are meant for small installations.
package mongo
