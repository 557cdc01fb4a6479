package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)

	name := ObjectName("/services/svc-1/", "image/png", at)

	assert.True(t, strings.HasPrefix(name, "services/svc-1/"))
	assert.True(t, strings.HasSuffix(name, "-20260501103000.png"))
	assert.True(t, strings.HasSuffix(ObjectName("x", "application/zip", at), ".bin"))
}

func TestObjectFromURL(t *testing.T) {
	obj, err := ObjectFromURL("eventhub-media", "https://storage.googleapis.com/eventhub-media/services/a.png")
	require.NoError(t, err)
	assert.Equal(t, "services/a.png", obj)

	_, err = ObjectFromURL("eventhub-media", "https://storage.googleapis.com/other/services/a.png")
	assert.Error(t, err)

	_, err = ObjectFromURL("eventhub-media", "https://example.com/a.png")
	assert.Error(t, err)
}
