package session

import "sync"

// Store hands out sessions keyed by chat identity. Lookup and lazy creation
// are safe under concurrent first contact from multiple chats; there is no
// store-wide lock held during message handling.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for chatID, creating it on first contact.
func (st *Store) GetOrCreate(chatID string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[chatID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[chatID]; ok {
		return s
	}
	s = &Session{ChatID: chatID}
	st.sessions[chatID] = s
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
