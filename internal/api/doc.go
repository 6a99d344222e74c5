// Package api holds the types and collaborator contracts shared by every
// fleetgate package.
//
// Nothing in here performs I/O. The Kibana client implements the
// interfaces, the initialization sequencer and the agent details loader
// consume them, and the HTTP server and CLI only ever see the data types.
// Keeping the contracts here means internal packages never import each
// other just to agree on a struct.
package api
