package docstore

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Memory implements Client with in-process maps. Values are round-tripped
// through bson on the way in and out so tests observe the same encoding
// behavior as the Mongo implementation.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.M
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]bson.M)}
}

func (m *Memory) QueryEquals(ctx context.Context, collection, field string, value any, out any) error {
	want, err := normalize(value)
	if err != nil {
		return err
	}

	m.mu.RLock()
	var matches []bson.M
	for _, doc := range m.collections[collection] {
		if reflect.DeepEqual(doc[field], want) {
			matches = append(matches, doc)
		}
	}
	m.mu.RUnlock()

	slice := reflect.ValueOf(out).Elem()
	slice.Set(slice.Slice(0, 0))
	for _, doc := range matches {
		elem := reflect.New(slice.Type().Elem())
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (m *Memory) GetByID(ctx context.Context, collection, id string, out any) error {
	m.mu.RLock()
	doc, ok := m.collections[collection][id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return decode(doc, out)
}

func (m *Memory) CreateWithID(ctx context.Context, collection, id string, body any) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}
	doc, err := toDocument(body)
	if err != nil {
		return "", err
	}
	doc["_id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]bson.M)
	}
	if _, ok := m.collections[collection][id]; ok {
		return "", ErrDuplicateID
	}
	m.collections[collection][id] = doc
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, body any) error {
	doc, err := toDocument(body)
	if err != nil {
		return err
	}
	doc["_id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	m.collections[collection][id] = doc
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

// Count reports how many documents a collection holds. Test helper.
func (m *Memory) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func decode(doc bson.M, out any) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

// normalize passes a query value through bson so comparisons see the
// same representation as stored documents.
func normalize(value any) (any, error) {
	data, err := bson.Marshal(bson.M{"v": value})
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc["v"], nil
}
