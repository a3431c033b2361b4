package handlers

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func marshalJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// marshalPayload keeps the raw candidate answer alongside the derived grade,
// so a disputed attention item can be re-checked by hand.
func marshalPayload(found []string, optionID *uint, extra map[string]any) (datatypes.JSON, error) {
	payload := map[string]any{}
	if len(found) > 0 {
		payload["found"] = found
	}
	if optionID != nil {
		payload["option_id"] = *optionID
	}
	for k, v := range extra {
		payload[k] = v
	}
	return marshalJSON(payload)
}
