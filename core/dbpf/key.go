package dbpf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResourceKey identifies one resource inside a package container by its
// (type, group, instance) triple. It is a comparable value type and is used
// directly as a map key when grouping files by resource.
type ResourceKey struct {
	Type     uint32
	Group    uint32
	Instance uint64
}

// IsZero reports whether all three components are zero. An all-zero key is a
// padding slot in the index table, never a real resource.
func (k ResourceKey) IsZero() bool {
	return k.Type == 0 && k.Group == 0 && k.Instance == 0
}

// TypeHex formats the type id as 0xXXXXXXXX.
func (k ResourceKey) TypeHex() string { return fmt.Sprintf("0x%08X", k.Type) }

// GroupHex formats the group id as 0xXXXXXXXX.
func (k ResourceKey) GroupHex() string { return fmt.Sprintf("0x%08X", k.Group) }

// InstanceHex formats the instance id as 0xXXXXXXXXXXXXXXXX.
func (k ResourceKey) InstanceHex() string { return fmt.Sprintf("0x%016X", k.Instance) }

// String renders the key as type:group:instance in hex.
func (k ResourceKey) String() string {
	return k.TypeHex() + ":" + k.GroupHex() + ":" + k.InstanceHex()
}

// MarshalJSON renders the key with hex-formatted fields for API consumers.
func (k ResourceKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Group    string `json:"group"`
		Instance string `json:"instance"`
	}{k.TypeHex(), k.GroupHex(), k.InstanceHex()})
}

// UnmarshalJSON parses the hex-formatted form produced by MarshalJSON.
func (k *ResourceKey) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string `json:"type"`
		Group    string `json:"group"`
		Instance string `json:"instance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := parseHex(raw.Type, 32)
	if err != nil {
		return err
	}
	g, err := parseHex(raw.Group, 32)
	if err != nil {
		return err
	}
	inst, err := parseHex(raw.Instance, 64)
	if err != nil {
		return err
	}
	k.Type = uint32(t)
	k.Group = uint32(g)
	k.Instance = inst
	return nil
}

func parseHex(s string, bits int) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, bits)
}
