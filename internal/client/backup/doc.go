// Package backup is the archive's Backup Codec.
//
// A backup is a single indented JSON document holding the full item list and
// the full folder list as persisted:
//
//	{
//	  "projects": [ ... ],
//	  "folders":  [ ... ]
//	}
//
// Export refuses, upgrades or embeds items whose content only exists locally,
// depending on the Policy. Decode validates the whole document before the
// caller writes anything. A document can optionally be sealed with a
// passphrase; Decode recognizes sealed envelopes by their format marker.
package backup
