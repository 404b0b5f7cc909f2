package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/oksasatya/user-management/internal/domain/entity"
	repo "github.com/oksasatya/user-management/internal/domain/repository"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[int64]entity.User
	nextID  int64
	saves   int
	deletes int
	err     error
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	cp := *u
	if cp.ID == 0 {
		r.nextID++
		cp.ID = r.nextID
	}
	r.users[cp.ID] = cp
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	delete(r.users, u.ID)
	return nil
}

func (r *fakeUserRepo) FindAll(context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeRoleRepo struct {
	roles []entity.Role
}

func (r *fakeRoleRepo) FindAll(context.Context) ([]entity.Role, error) { return r.roles, nil }

func (r *fakeRoleRepo) FindByIDs(_ context.Context, ids []int64) ([]entity.Role, error) {
	var out []entity.Role
	for _, role := range r.roles {
		for _, id := range ids {
			if role.ID == id {
				out = append(out, role)
				break
			}
		}
	}
	return out, nil
}

// fakeEncoder prefixes instead of hashing so tests can assert on the result.
type fakeEncoder struct{}

func (fakeEncoder) Encode(plain string) (string, error) { return "enc:" + plain, nil }

func (fakeEncoder) Matches(hash, plain string) bool { return hash == "enc:"+plain }

type failingEncoder struct{}

func (failingEncoder) Encode(string) (string, error) { return "", errors.New("encoder down") }

func (failingEncoder) Matches(string, string) bool { return false }

type recordingPublisher struct {
	bodies []any
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.bodies = append(p.bodies, body)
	return p.err
}

type fakeIndex struct {
	docs    map[int64]UserDocument
	removed []int64
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[int64]UserDocument{}} }

func (x *fakeIndex) Index(_ context.Context, doc UserDocument) error {
	if x.err != nil {
		return x.err
	}
	x.docs[doc.ID] = doc
	return nil
}

func (x *fakeIndex) Remove(_ context.Context, id int64) error {
	x.removed = append(x.removed, id)
	delete(x.docs, id)
	return x.err
}

func (x *fakeIndex) Search(_ context.Context, q string, size int) ([]UserDocument, error) {
	out := []UserDocument{}
	for _, d := range x.docs {
		if strings.Contains(d.Username, q) && len(out) < size {
			out = append(out, d)
		}
	}
	return out, nil
}

type memUploader struct {
	path        string
	contentType string
	body        []byte
}

func (m *memUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.path, m.contentType, m.body = objectPath, contentType, b
	return "https://storage.example/" + objectPath, nil
}
