package catalog

/*
Card is the metadata an agent publishes so peers can find it: who it is,
what it is for, and where its truth-sync endpoint listens.
*/
type Card struct {
	// ID is the agent's genesis identifier.
	ID string `json:"id"`
	// Name is the agent's identity label.
	Name string `json:"name"`
	// Telos is the agent's stated purpose.
	Telos string `json:"telos"`
	// SyncAddr is the host:port of the agent's TCP truth-sync listener.
	SyncAddr string `json:"syncAddr"`
	// Version identifies the agent build.
	Version string `json:"version"`
}
