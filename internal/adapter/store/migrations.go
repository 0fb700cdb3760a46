package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"docseek/internal/domain"
)

// CurrentSchemaVersion is the version written into every persisted index.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// SchemaInfo stores the schema version of a bolt index.
type SchemaInfo struct {
	Version int `json:"version"`
}

func checkVersion(version int) error {
	switch {
	case version == 0:
		return fmt.Errorf("%w: missing schema version", domain.ErrFormat)
	case version > CurrentSchemaVersion:
		return fmt.Errorf("%w: index created by newer version (v%d > v%d)", domain.ErrFormat, version, CurrentSchemaVersion)
	case version < CurrentSchemaVersion:
		return fmt.Errorf("%w: schema v%d is no longer supported, rebuild the index", domain.ErrFormat, version)
	}
	return nil
}

func readSchemaInfo(tx *bbolt.Tx) (*SchemaInfo, error) {
	var info SchemaInfo
	b := tx.Bucket(bucketMeta)
	if b == nil {
		return &info, nil
	}
	if data := b.Get(keySchemaVersion); data != nil {
		if err := json.Unmarshal(data, &info.Version); err != nil {
			return nil, fmt.Errorf("%w: schema version: %v", domain.ErrFormat, err)
		}
	}
	return &info, nil
}

func writeSchemaInfo(tx *bbolt.Tx, info *SchemaInfo) error {
	b, err := tx.CreateBucketIfNotExists(bucketMeta)
	if err != nil {
		return err
	}
	data, err := json.Marshal(info.Version)
	if err != nil {
		return err
	}
	return b.Put(keySchemaVersion, data)
}
