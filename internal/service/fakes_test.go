package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/repository"
)

// memStore backs the in-memory repository fakes. It enforces the same
// unique keys the SQL schema does, under one mutex, so the concurrency
// properties of the conditional-write operations are exercised for real.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]domain.User
	posts    map[uuid.UUID]domain.Post
	comments map[uuid.UUID]domain.Comment
	likes    map[likeKey]domain.Like
	follows  map[followKey]domain.Follow
	stats    map[statKey]domain.DailyStat
	seq      int64
	// commentOrder breaks ties between comments created within the same
	// clock tick.
	commentOrder map[uuid.UUID]int64
}

type likeKey struct {
	postID uuid.UUID
	userID uuid.UUID
}

type followKey struct {
	followerID  uuid.UUID
	followingID uuid.UUID
}

type statKey struct {
	postID uuid.UUID
	date   string
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]domain.User),
		posts:        make(map[uuid.UUID]domain.Post),
		comments:     make(map[uuid.UUID]domain.Comment),
		likes:        make(map[likeKey]domain.Like),
		follows:      make(map[followKey]domain.Follow),
		stats:        make(map[statKey]domain.DailyStat),
		commentOrder: make(map[uuid.UUID]int64),
	}
}

func (s *memStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Upsert(_ context.Context, user *domain.User) (uuid.UUID, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.users {
		if existing.TokenIdentifier == user.TokenIdentifier {
			existing.DisplayName = user.DisplayName
			existing.LastActiveAt = user.LastActiveAt
			s.users[id] = existing
			return id, nil
		}
	}
	s.users[user.ID] = *user
	return user.ID, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByToken(_ context.Context, token string) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.TokenIdentifier == token {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username != nil && *u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ClaimUsername(_ context.Context, id uuid.UUID, username string, now time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for otherID, u := range s.users {
		if otherID != id && u.Username != nil && *u.Username == username {
			return repository.ErrConflict
		}
	}
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	u.Username = &username
	u.LastActiveAt = now
	s.users[id] = u
	return nil
}

func (r *memUserRepo) Search(_ context.Context, query string, limit int) ([]domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var users []domain.User
	for _, u := range s.users {
		email := ""
		if u.Email != nil {
			email = *u.Email
		}
		if strings.Contains(strings.ToLower(u.DisplayName), q) || strings.HasPrefix(strings.ToLower(email), q) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].DisplayName < users[j].DisplayName })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

type memPostRepo struct{ store *memStore }

func (r *memPostRepo) Create(_ context.Context, post *domain.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = *post
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.posts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *memPostRepo) Update(_ context.Context, post *domain.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.posts[post.ID]; ok {
		// Counters are owned by the store, not by Update.
		updated := *post
		updated.ViewCount = existing.ViewCount
		updated.LikeCount = existing.LikeCount
		s.posts[post.ID] = updated
	}
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	for k := range s.likes {
		if k.postID == id {
			delete(s.likes, k)
		}
	}
	for k := range s.stats {
		if k.postID == id {
			delete(s.stats, k)
		}
	}
	return nil
}

func (r *memPostRepo) ListByAuthor(_ context.Context, authorID uuid.UUID, status string) ([]domain.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []domain.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID && (status == "" || p.Status == status) {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r *memPostRepo) ListPublished(_ context.Context, limit, offset int) ([]domain.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []domain.Post
	for _, p := range s.posts {
		if p.Status == domain.PostStatusPublished {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].PublishedAt.After(*posts[j].PublishedAt) })
	if offset >= len(posts) {
		return nil, nil
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *memPostRepo) SearchPublished(_ context.Context, query string, limit int) ([]domain.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var posts []domain.Post
	for _, p := range s.posts {
		if p.Status == domain.PostStatusPublished && strings.Contains(strings.ToLower(p.Title), q) {
			posts = append(posts, p)
		}
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *memPostRepo) IncrementView(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false, nil
	}
	p.ViewCount++
	s.posts[id] = p
	return true, nil
}

func (r *memPostRepo) PublishDue(_ context.Context, now time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, p := range s.posts {
		if p.Status == domain.PostStatusScheduled && p.ScheduledFor != nil && !p.ScheduledFor.After(now) {
			p.Status = domain.PostStatusPublished
			publishedAt := *p.ScheduledFor
			p.PublishedAt = &publishedAt
			p.UpdatedAt = now
			s.posts[id] = p
			count++
		}
	}
	return count, nil
}

type memCommentRepo struct{ store *memStore }

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.ID] = *comment
	s.commentOrder[comment.ID] = s.nextSeq()
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *memCommentRepo) ListByPost(_ context.Context, postID uuid.UUID, status string) ([]domain.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []domain.Comment
	for _, c := range s.comments {
		if c.PostID == postID && (status == "" || c.Status == status) {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return s.commentOrder[comments[i].ID] < s.commentOrder[comments[j].ID]
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *memCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}

type memLikeRepo struct {
	store *memStore
	// onDelete runs, with the store lock held, after the toggle picks the
	// delete branch and before the row is removed. Tests use it to splice
	// in a toggle that lands first.
	onDelete func()
}

func (r *memLikeRepo) Toggle(_ context.Context, postID, userID uuid.UUID, now time.Time) (bool, int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return false, 0, nil
	}

	key := likeKey{postID: postID, userID: userID}
	if _, exists := s.likes[key]; exists {
		if r.onDelete != nil {
			r.onDelete()
		}
		post = s.posts[postID]
		// Mirror the zero-row delete: only adjust the counter when this
		// toggle is the one that removes the row.
		if _, still := s.likes[key]; still {
			delete(s.likes, key)
			if post.LikeCount > 0 {
				post.LikeCount--
			}
			s.posts[postID] = post
		}
		return false, post.LikeCount, nil
	}

	s.likes[key] = domain.Like{ID: uuid.New(), PostID: postID, UserID: userID, CreatedAt: now}
	post.LikeCount++
	s.posts[postID] = post
	return true, post.LikeCount, nil
}

func (r *memLikeRepo) Exists(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[likeKey{postID: postID, userID: userID}]
	return ok, nil
}

type memFollowRepo struct{ store *memStore }

func (r *memFollowRepo) Create(_ context.Context, follow *domain.Follow) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := followKey{followerID: follow.FollowerID, followingID: follow.FollowingID}
	if _, exists := s.follows[key]; exists {
		return nil
	}
	s.follows[key] = *follow
	return nil
}

func (r *memFollowRepo) Delete(_ context.Context, followerID, followingID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.follows, followKey{followerID: followerID, followingID: followingID})
	return nil
}

func (r *memFollowRepo) Exists(_ context.Context, followerID, followingID uuid.UUID) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.follows[followKey{followerID: followerID, followingID: followingID}]
	return ok, nil
}

func (r *memFollowRepo) ListFollowers(_ context.Context, userID uuid.UUID) ([]domain.Follow, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var follows []domain.Follow
	for _, f := range s.follows {
		if f.FollowingID == userID {
			follows = append(follows, f)
		}
	}
	sort.Slice(follows, func(i, j int) bool { return follows[i].CreatedAt.After(follows[j].CreatedAt) })
	return follows, nil
}

func (r *memFollowRepo) ListFollowing(_ context.Context, userID uuid.UUID) ([]domain.Follow, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var follows []domain.Follow
	for _, f := range s.follows {
		if f.FollowerID == userID {
			follows = append(follows, f)
		}
	}
	sort.Slice(follows, func(i, j int) bool { return follows[i].CreatedAt.After(follows[j].CreatedAt) })
	return follows, nil
}

func (r *memFollowRepo) Counts(_ context.Context, userID uuid.UUID) (int64, int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var followers, following int64
	for _, f := range s.follows {
		if f.FollowingID == userID {
			followers++
		}
		if f.FollowerID == userID {
			following++
		}
	}
	return followers, following, nil
}

type memStatsRepo struct{ store *memStore }

func (r *memStatsRepo) RecordView(_ context.Context, postID uuid.UUID, date string, now time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statKey{postID: postID, date: date}
	if st, ok := s.stats[key]; ok {
		st.Views++
		st.UpdatedAt = now
		s.stats[key] = st
		return nil
	}
	s.stats[key] = domain.DailyStat{
		ID: uuid.New(), PostID: postID, Date: date, Views: 1, CreatedAt: now, UpdatedAt: now,
	}
	return nil
}

func (r *memStatsRepo) GetRange(_ context.Context, postID uuid.UUID, fromDate, toDate string) ([]domain.DailyStat, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats []domain.DailyStat
	for key, st := range s.stats {
		if key.postID == postID && key.date >= fromDate && key.date <= toDate {
			stats = append(stats, st)
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func (r *memStatsRepo) TotalViews(_ context.Context, postID uuid.UUID) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for key, st := range s.stats {
		if key.postID == postID {
			total += st.Views
		}
	}
	return total, nil
}

// fixture bundles the services wired onto one shared store.
type fixture struct {
	store    *memStore
	users    *memUserRepo
	posts    *memPostRepo
	comments *memCommentRepo
	likes    *memLikeRepo
	follows  *memFollowRepo
	stats    *memStatsRepo

	identity *IdentityService
	post     *PostService
	comment  *CommentService
	like     *LikeService
	follow   *FollowService
	stat     *StatsService
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:    store,
		users:    &memUserRepo{store: store},
		posts:    &memPostRepo{store: store},
		comments: &memCommentRepo{store: store},
		likes:    &memLikeRepo{store: store},
		follows:  &memFollowRepo{store: store},
		stats:    &memStatsRepo{store: store},
	}
	f.identity = NewIdentityService(f.users)
	f.post = NewPostService(f.posts, f.users, f.stats)
	f.comment = NewCommentService(f.comments, f.posts)
	f.like = NewLikeService(f.likes, f.posts)
	f.follow = NewFollowService(f.follows, f.users)
	f.stat = NewStatsService(f.stats, f.posts)
	return f
}

func (f *fixture) newUser(ctx context.Context, token, name string) uuid.UUID {
	id, err := f.identity.StoreOrRefresh(ctx, domain.Identity{TokenIdentifier: token, DisplayName: name})
	if err != nil {
		panic(err)
	}
	return id
}
