// Package state persists explicit enable/disable overrides.
//
// The override file (.assetgate/enablement.json) holds one boolean map per
// asset kind plus a format version and the time of the last save:
//
//	{
//	  "version": 1,
//	  "updated_at": "2025-01-02T03:04:05Z",
//	  "prompts": {"prompts/review.prompt.md": true},
//	  "instructions": {},
//	  "chat_modes": {},
//	  "collections": {"collections/backend.collection.yml": false}
//	}
//
// A missing, unparsable, or invalid file is replaced by the default (empty)
// file and reported as a Warning so that callers can keep working.
package state
