package normalizer

import "encoding/json"

// envelope is the webhook body shared by the supported platforms:
//
//	{"object":"ad_account","entry":[{"id":"act_1","time":1700000000,"changes":[{"field":"...","value":{...}}]}]}
type envelope struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID      json.RawMessage `json:"id"`
	Time    json.Number     `json:"time"`
	Changes []rawChange     `json:"changes"`
}

type rawChange struct {
	Field string       `json:"field"`
	Value *changeValue `json:"value"`
}

type changeValue struct {
	Verb       string          `json:"verb"`
	ObjectType string          `json:"object_type"`
	ObjectID   json.RawMessage `json:"object_id"`
	ObjectName string          `json:"object_name"`
	Field      string          `json:"field"`
	Before     any             `json:"before"`
	After      any             `json:"after"`
}

// parsedEntry is an entry that passed structural validation.
type parsedEntry struct {
	AccountID string
	Time      int64
	Changes   []parsedChange
}

type parsedChange struct {
	Verb       string
	ObjectType string
	ObjectID   string
	ObjectName string
	Field      string
	Before     any
	After      any
}
