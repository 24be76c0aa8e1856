// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"

	"github.com/taibuivan/tastedees/internal/platform/filestore"
	"github.com/taibuivan/tastedees/internal/platform/sec"
	"github.com/taibuivan/tastedees/pkg/slice"
)

// FileUserRepository keeps accounts in a JSON array file. Writes are
// serialised and atomic; see [filestore.Collection].
type FileUserRepository struct {
	users *filestore.Collection[User]
}

// NewFileUserRepository stores accounts at path with owner-only permissions.
func NewFileUserRepository(path string) *FileUserRepository {
	return &FileUserRepository{users: filestore.New[User](path, 0o600)}
}

func (r *FileUserRepository) Create(_ context.Context, user *User) error {
	return r.users.Update(func(users []User) ([]User, error) {
		if indexByUsername(users, user.Username) >= 0 {
			return nil, ErrDuplicateUsername
		}
		return append(users, *user), nil
	})
}

func (r *FileUserRepository) CreateFirst(_ context.Context, user *User) error {
	return r.users.Update(func(users []User) ([]User, error) {
		if len(users) > 0 {
			return nil, ErrNotEmpty
		}
		return append(users, *user), nil
	})
}

func (r *FileUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	var found *User
	err := r.users.Read(func(users []User) error {
		if i := indexByUsername(users, username); i >= 0 {
			u := users[i]
			found = &u
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrUserNotFound
	}
	return found, nil
}

func (r *FileUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	var found *User
	err := r.users.Read(func(users []User) error {
		if i := indexByID(users, id); i >= 0 {
			u := users[i]
			found = &u
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrUserNotFound
	}
	return found, nil
}

func (r *FileUserRepository) Delete(_ context.Context, id string) error {
	return r.users.Update(func(users []User) ([]User, error) {
		i := indexByID(users, id)
		if i < 0 {
			return nil, ErrUserNotFound
		}

		if users[i].Role == sec.RoleSuperAdmin {
			supers := slice.Count(users, func(u User) bool { return u.Role == sec.RoleSuperAdmin })
			if supers <= 1 {
				return nil, ErrLastSuperAdmin
			}
		}

		return append(users[:i], users[i+1:]...), nil
	})
}

func (r *FileUserRepository) List(_ context.Context) ([]*User, error) {
	var out []*User
	err := r.users.Read(func(users []User) error {
		out = make([]*User, len(users))
		for i := range users {
			u := users[i]
			out[i] = &u
		}
		return nil
	})
	return out, err
}

func (r *FileUserRepository) Count(_ context.Context) (int, error) {
	n := 0
	err := r.users.Read(func(users []User) error {
		n = len(users)
		return nil
	})
	return n, err
}

func indexByUsername(users []User, username string) int {
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return i
		}
	}
	return -1
}

func indexByID(users []User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
