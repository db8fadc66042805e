package counter

import (
	"context"
	"errors"

	"cloud.google.com/go/datastore"
)

// DefaultKind is the Datastore kind holding the counter entity.
const DefaultKind = "VisitCounter"

// A single hot entity sees more contention than the client default allows for.
const txMaxAttempts = 10

var _ Counter = (*DatastoreCounter)(nil)

type countEntity struct {
	Count int64
}

// DatastoreCounter stores the record as a single entity and increments it
// inside a transaction. The client retries the transaction on contention,
// so concurrent callers never lose an update.
type DatastoreCounter struct {
	key    *datastore.Key
	client *datastore.Client
}

func NewDatastoreCounter(client *datastore.Client, kind, name, namespace string) *DatastoreCounter {
	key := datastore.NameKey(kind, name, nil)
	key.Namespace = namespace
	return &DatastoreCounter{key: key, client: client}
}

func (c *DatastoreCounter) Get(ctx context.Context) (int64, error) {
	var rec countEntity
	err := c.client.Get(ctx, c.key, &rec)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return 0, nil
	} else if err != nil {
		return 0, storeError("datastore.Get", err)
	}
	return rec.Count, nil
}

func (c *DatastoreCounter) Up(ctx context.Context) (int64, error) {
	var n int64
	_, err := c.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		// may run more than once, so n is recomputed from the entity each time
		var rec countEntity
		if err := tx.Get(c.key, &rec); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
			return err
		}
		rec.Count++
		if _, err := tx.Put(c.key, &rec); err != nil {
			return err
		}
		n = rec.Count
		return nil
	}, datastore.MaxAttempts(txMaxAttempts))
	if err != nil {
		return 0, storeError("datastore.RunInTransaction", err)
	}
	return n, nil
}
