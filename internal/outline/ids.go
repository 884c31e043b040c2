package outline

import (
	"strings"

	"github.com/google/uuid"
)

const tempIDPrefix = "tmp-"

// tempID returns a client-generated id for an entity that has not been
// persisted yet. The server-assigned permanent id replaces it on success.
func tempID() string {
	return tempIDPrefix + uuid.NewString()
}

func isTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
