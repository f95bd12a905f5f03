package dto

import (
	"bytes"

	"github.com/goccy/go-json"
)

// NullableID tells an absent field apart from an explicit null.
//
//	{}              -> Set=false
//	{"horseId":null} -> Set=true, Value=nil
//	{"horseId":4}    -> Set=true, Value=4
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}
