package server

import (
	"net/http"
	"time"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

func list[T domain.Item](s *Server, fn func(*manager.Manager) []T) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		items := fn(s.m)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, toDTOs(items, s.loc))
	}
}

func get[T domain.Item](s *Server, fn func(*manager.Manager, int) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		s.mu.Lock()
		it, err := fn(s.m, id)
		s.mu.Unlock()
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toDTO(it, s.loc))
	}
}

// save creates the item when the body has no id and updates it otherwise.
// Both paths answer 201 with the stored item.
func save[T domain.Item](
	s *Server,
	decode func(itemDTO, *time.Location) (T, error),
	create, update func(*manager.Manager, T) (T, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readJSON[itemDTO](w, r)
		if !ok {
			return
		}
		it, err := decode(body, s.loc)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}

		op := create
		if it.Base().ID != 0 {
			op = update
		}
		s.mu.Lock()
		stored, err := op(s.m, it)
		s.mu.Unlock()
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDTO(stored, s.loc))
	}
}

func deleteOne(s *Server, fn func(*manager.Manager, int) error, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		s.mu.Lock()
		err := fn(s.m, id)
		s.mu.Unlock()
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

func deleteAll(s *Server, fn func(*manager.Manager) error, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		err := fn(s.m)
		s.mu.Unlock()
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

func (s *Server) handleEpicSubtasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	subtasks, err := s.m.EpicSubtasks(id)
	s.mu.Unlock()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(subtasks, s.loc))
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := s.m.History()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, toDTOs(items, s.loc))
}

func (s *Server) handlePrioritized(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := s.m.Prioritized()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, toDTOs(items, s.loc))
}
