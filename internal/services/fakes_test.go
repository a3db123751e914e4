package services

import (
	"context"
	"sort"
	"time"

	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
)

// In-memory repository fakes backing the service tests. They mirror the
// SQL contracts: sentinel errors, unique-constraint conflicts, and
// id-descending cursor pages.

type fakeUserRepo struct {
	users    map[int]types.User
	profiles map[int]types.Profile
	nextID   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[int]types.User),
		profiles: make(map[int]types.Profile),
		nextID:   1,
	}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByName(_ context.Context, name string) (types.User, error) {
	match := types.User{}
	for _, user := range f.users {
		if user.Name != name {
			continue
		}
		if match.ID == 0 || user.ID < match.ID {
			match = user
		}
	}
	if match.ID == 0 {
		return types.User{}, store.ErrNotFound
	}
	return match, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetProfile(_ context.Context, userID int) (types.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (f *fakeUserRepo) UpsertProfile(_ context.Context, profile types.Profile) (types.Profile, error) {
	f.profiles[profile.UserID] = profile
	return profile, nil
}

type fakeLikeRepo struct {
	likes map[[2]int]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[[2]int]bool)}
}

func (f *fakeLikeRepo) Exists(_ context.Context, postID, userID int) (bool, error) {
	return f.likes[[2]int{postID, userID}], nil
}

func (f *fakeLikeRepo) Create(_ context.Context, postID, userID int) error {
	key := [2]int{postID, userID}
	if f.likes[key] {
		return store.ErrConflict
	}
	f.likes[key] = true
	return nil
}

func (f *fakeLikeRepo) Delete(_ context.Context, postID, userID int) error {
	key := [2]int{postID, userID}
	if !f.likes[key] {
		return store.ErrNotFound
	}
	delete(f.likes, key)
	return nil
}

type fakePostRepo struct {
	posts  map[int]types.Post
	likes  *fakeLikeRepo
	nextID int
}

func newFakePostRepo(likes *fakeLikeRepo) *fakePostRepo {
	return &fakePostRepo{
		posts:  make(map[int]types.Post),
		likes:  likes,
		nextID: 1,
	}
}

func (f *fakePostRepo) Get(_ context.Context, id int) (types.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (f *fakePostRepo) GetForViewer(ctx context.Context, id, viewerID int) (types.Post, error) {
	post, err := f.Get(ctx, id)
	if err != nil {
		return types.Post{}, err
	}
	if f.likes != nil {
		post.IsLiked, _ = f.likes.Exists(ctx, id, viewerID)
	}
	return post, nil
}

func (f *fakePostRepo) ListPublic(ctx context.Context, viewerID, cursor, limit int) ([]types.Post, error) {
	return f.page(ctx, viewerID, cursor, limit, func(p types.Post) bool { return p.IsPublic }), nil
}

func (f *fakePostRepo) ListByUser(ctx context.Context, userID, viewerID, cursor, limit int) ([]types.Post, error) {
	return f.page(ctx, viewerID, cursor, limit, func(p types.Post) bool {
		return p.IsPublic && p.UserID == userID
	}), nil
}

func (f *fakePostRepo) page(ctx context.Context, viewerID, cursor, limit int, keep func(types.Post) bool) []types.Post {
	ids := make([]int, 0, len(f.posts))
	for id, post := range f.posts {
		if !keep(post) {
			continue
		}
		if cursor != 0 && id >= cursor {
			continue
		}
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	if len(ids) > limit {
		ids = ids[:limit]
	}

	page := make([]types.Post, 0, len(ids))
	for _, id := range ids {
		post, _ := f.GetForViewer(ctx, id, viewerID)
		page = append(page, post)
	}
	return page
}

func (f *fakePostRepo) Create(_ context.Context, post types.Post) (types.Post, error) {
	post.ID = f.nextID
	f.nextID++
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) Update(_ context.Context, post types.Post) (types.Post, error) {
	if _, ok := f.posts[post.ID]; !ok {
		return types.Post{}, store.ErrNotFound
	}
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) CountByUser(_ context.Context, userID int) (int, error) {
	count := 0
	for _, post := range f.posts {
		if post.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeCommentRepo struct {
	comments map[int]types.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int]types.Comment), nextID: 1}
}

func (f *fakeCommentRepo) Get(_ context.Context, id int) (types.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return types.Comment{}, store.ErrNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) ListByPost(_ context.Context, postID, cursor, limit int) ([]types.Comment, error) {
	ids := make([]int, 0, len(f.comments))
	for id, comment := range f.comments {
		if comment.PostID != postID {
			continue
		}
		if cursor != 0 && id >= cursor {
			continue
		}
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	if len(ids) > limit {
		ids = ids[:limit]
	}

	page := make([]types.Comment, 0, len(ids))
	for _, id := range ids {
		page = append(page, f.comments[id])
	}
	return page, nil
}

func (f *fakeCommentRepo) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	comment.ID = f.nextID
	f.nextID++
	f.comments[comment.ID] = comment
	return comment, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment types.Comment) (types.Comment, error) {
	if _, ok := f.comments[comment.ID]; !ok {
		return types.Comment{}, store.ErrNotFound
	}
	f.comments[comment.ID] = comment
	return comment, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakeFollowRepo struct {
	follows map[[2]int]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[[2]int]bool)}
}

func (f *fakeFollowRepo) Exists(_ context.Context, followerID, followingID int) (bool, error) {
	return f.follows[[2]int{followerID, followingID}], nil
}

func (f *fakeFollowRepo) Create(_ context.Context, followerID, followingID int) error {
	key := [2]int{followerID, followingID}
	if f.follows[key] {
		return store.ErrConflict
	}
	f.follows[key] = true
	return nil
}

func (f *fakeFollowRepo) Delete(_ context.Context, followerID, followingID int) error {
	key := [2]int{followerID, followingID}
	if !f.follows[key] {
		return store.ErrNotFound
	}
	delete(f.follows, key)
	return nil
}

func (f *fakeFollowRepo) CountFollowers(_ context.Context, userID int) (int, error) {
	count := 0
	for key := range f.follows {
		if key[1] == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeFollowRepo) CountFollowing(_ context.Context, userID int) (int, error) {
	count := 0
	for key := range f.follows {
		if key[0] == userID {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	notifications []types.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n types.Notification) (types.Notification, error) {
	n.ID = len(f.notifications) + 1
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeNotificationRepo) Get(_ context.Context, id int) (types.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return types.Notification{}, store.ErrNotFound
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID int, unreadOnly bool, limit int) ([]types.Notification, error) {
	list := make([]types.Notification, 0)
	for i := len(f.notifications) - 1; i >= 0 && len(list) < limit; i-- {
		n := f.notifications[i]
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		list = append(list, n)
	}
	return list, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id int) error {
	for i, n := range f.notifications {
		if n.ID == id {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int) error {
	for i, n := range f.notifications {
		if n.UserID == userID {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

type fakeCoffeeRepo struct {
	records  map[int]types.CoffeeRecord
	settings map[int]types.CoffeeSettings
	nextID   int
}

func newFakeCoffeeRepo() *fakeCoffeeRepo {
	return &fakeCoffeeRepo{
		records:  make(map[int]types.CoffeeRecord),
		settings: make(map[int]types.CoffeeSettings),
		nextID:   1,
	}
}

func (f *fakeCoffeeRepo) Create(_ context.Context, record types.CoffeeRecord) (types.CoffeeRecord, error) {
	record.ID = f.nextID
	f.nextID++
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeCoffeeRepo) list(userID int, keep func(types.CoffeeRecord) bool) []types.CoffeeRecord {
	list := make([]types.CoffeeRecord, 0)
	for _, record := range f.records {
		if record.UserID == userID && keep(record) {
			list = append(list, record)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list
}

func (f *fakeCoffeeRepo) ListMonth(_ context.Context, userID int, from, to time.Time) ([]types.CoffeeRecord, error) {
	return f.list(userID, func(r types.CoffeeRecord) bool {
		return !r.Date.Before(from) && r.Date.Before(to)
	}), nil
}

func (f *fakeCoffeeRepo) ListRecent(_ context.Context, userID, limit int) ([]types.CoffeeRecord, error) {
	list := f.list(userID, func(types.CoffeeRecord) bool { return true })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeCoffeeRepo) ListSince(_ context.Context, userID int, since time.Time) ([]types.CoffeeRecord, error) {
	return f.list(userID, func(r types.CoffeeRecord) bool {
		return !r.Date.Before(since)
	}), nil
}

func (f *fakeCoffeeRepo) DeleteOwned(_ context.Context, id, userID int) error {
	record, ok := f.records[id]
	if !ok || record.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeCoffeeRepo) SumForDate(_ context.Context, userID int, date time.Time) (int, error) {
	total := 0
	for _, record := range f.records {
		if record.UserID == userID && record.Date.Equal(date) {
			total += record.Cups
		}
	}
	return total, nil
}

func (f *fakeCoffeeRepo) Latest(_ context.Context, userID int) (types.CoffeeRecord, error) {
	var latest types.CoffeeRecord
	found := false
	for _, record := range f.records {
		if record.UserID != userID {
			continue
		}
		if !found || record.Timestamp.After(latest.Timestamp) {
			latest = record
			found = true
		}
	}
	if !found {
		return types.CoffeeRecord{}, store.ErrNotFound
	}
	return latest, nil
}

func (f *fakeCoffeeRepo) GetSettings(_ context.Context, userID int) (types.CoffeeSettings, error) {
	settings, ok := f.settings[userID]
	if !ok {
		return types.CoffeeSettings{}, store.ErrNotFound
	}
	return settings, nil
}

func (f *fakeCoffeeRepo) UpsertSettings(_ context.Context, settings types.CoffeeSettings) (types.CoffeeSettings, error) {
	f.settings[settings.UserID] = settings
	return settings, nil
}
