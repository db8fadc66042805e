package counter

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/datastore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDatastoreCounter(t *testing.T) {
	if os.Getenv("DATASTORE_EMULATOR_HOST") == "" {
		t.Skip("DATASTORE_EMULATOR_HOST is not set")
	}

	ctx := context.Background()
	pjID := os.Getenv("PROJECT_ID")
	if pjID == "" {
		pjID = "visit-counter-test"
	}
	cl, err := datastore.NewClient(ctx, pjID)
	require.NoError(t, err)
	t.Cleanup(func() { cl.Close() })

	name := uuid.New().String()
	c := NewDatastoreCounter(cl, DefaultKind, name, "")
	t.Cleanup(func() { cl.Delete(context.Background(), c.key) })

	testCounter(t, c, 2)
}

func TestNewDatastoreCounter_Key(t *testing.T) {
	c := NewDatastoreCounter(nil, DefaultKind, DefaultKey, "site")
	require.Equal(t, DefaultKind, c.key.Kind)
	require.Equal(t, DefaultKey, c.key.Name)
	require.Equal(t, "site", c.key.Namespace)
	require.Nil(t, c.key.Parent)
}
