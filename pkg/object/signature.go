package object

// CommitSigningPayload returns the bytes a commit signature covers: the
// MarshalCommit encoding with Signature cleared. That binds the parents,
// timestamp, every tree entry and the message, so the signature survives
// storage but not any edit to the commit.
func CommitSigningPayload(c *Commit) []byte {
	if c == nil {
		return nil
	}
	unsigned := *c
	unsigned.Signature = ""
	return MarshalCommit(&unsigned)
}
