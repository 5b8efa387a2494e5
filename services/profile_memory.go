package services

import (
	"context"
	"sync"
	"time"

	"careerhub/models"
)

// MemoryProfileStore is an in-process ProfileStore with the same merge
// semantics as the Mongo-backed one, used in tests and local runs
// without a database.
type MemoryProfileStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{docs: make(map[string]map[string]interface{})}
}

func (s *MemoryProfileStore) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uid]
	if !ok {
		return nil, nil
	}
	return decodeProfile(uid, doc), nil
}

func (s *MemoryProfileStore) Merge(ctx context.Context, uid string, fields map[string]interface{}) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uid]
	if !ok {
		doc = make(map[string]interface{})
		s.docs[uid] = doc
	}
	for k, v := range fields {
		if k == "" || k == "_id" || k == "uid" {
			continue
		}
		doc[k] = v
	}
	return decodeProfile(uid, doc), nil
}

func decodeProfile(uid string, doc map[string]interface{}) *models.UserProfile {
	profile := &models.UserProfile{
		UID:   uid,
		Extra: make(map[string]interface{}),
	}
	for k, v := range doc {
		switch k {
		case "email":
			if s, ok := v.(string); ok {
				profile.Email = s
			}
		case "role":
			switch r := v.(type) {
			case models.Role:
				profile.Role = r
			case string:
				profile.Role = models.Role(r)
			}
		case "accountStatus":
			switch a := v.(type) {
			case models.AccountStatus:
				profile.AccountStatus = a
			case string:
				profile.AccountStatus = models.AccountStatus(a)
			}
		case "createdAt":
			if t, ok := v.(time.Time); ok {
				profile.CreatedAt = t
			}
		case "updatedAt":
			if t, ok := v.(time.Time); ok {
				profile.UpdatedAt = t
			}
		default:
			profile.Extra[k] = v
		}
	}
	return profile
}
