package redis

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
)

// mergeDocument decodes raw into doc, applies the update and returns raw with a JSON
// merge patch of the update applied on top of it.
func mergeDocument(raw []byte, doc interface{}, apply func()) ([]byte, error) {
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	before, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	apply()

	after, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, err
	}
	return jsonpatch.MergePatch(raw, patch)
}
