package storage

import (
	"fmt"

	"lolharvest/pkg/messages"
)

// StorageError wraps a failed disk operation. Fatal for the player
// being processed, the roster loop keeps going.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf(messages.StorageOperationMsg+": %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
