package service

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
)

func TestSelfFollowRejected(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()

	alice := f.newUser(ctx, "t|alice", "Alice")

	err := f.follow.Follow(ctx, alice, alice)
	c.Assert(err, qt.ErrorIs, ErrSelfFollow)

	err = f.follow.Unfollow(ctx, alice, alice)
	c.Assert(err, qt.ErrorIs, ErrSelfFollow)
}

func TestFollowIdempotent(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()

	alice := f.newUser(ctx, "t|alice", "Alice")
	bob := f.newUser(ctx, "t|bob", "Bob")

	c.Assert(f.follow.Follow(ctx, alice, bob), qt.IsNil)
	// Following again: one row, no error.
	c.Assert(f.follow.Follow(ctx, alice, bob), qt.IsNil)

	following, err := f.follow.ListFollowing(ctx, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(len(following), qt.Equals, 1)

	followers, err := f.follow.ListFollowers(ctx, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(len(followers), qt.Equals, 1)
	c.Assert(followers[0].FollowerID, qt.Equals, alice)
}

func TestFollowUnknownUser(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()

	alice := f.newUser(ctx, "t|alice", "Alice")

	err := f.follow.Follow(ctx, alice, uuid.New())
	c.Assert(err, qt.ErrorIs, ErrUserNotFound)
}

func TestUnfollow(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()

	alice := f.newUser(ctx, "t|alice", "Alice")
	bob := f.newUser(ctx, "t|bob", "Bob")

	c.Assert(f.follow.Follow(ctx, alice, bob), qt.IsNil)

	following, err := f.follow.IsFollowing(ctx, alice, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(following, qt.IsTrue)

	c.Assert(f.follow.Unfollow(ctx, alice, bob), qt.IsNil)
	// Unfollowing someone you don't follow is a no-op.
	c.Assert(f.follow.Unfollow(ctx, alice, bob), qt.IsNil)

	following, err = f.follow.IsFollowing(ctx, alice, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(following, qt.IsFalse)
}

func TestFollowCounts(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()

	alice := f.newUser(ctx, "t|alice", "Alice")
	bob := f.newUser(ctx, "t|bob", "Bob")
	carol := f.newUser(ctx, "t|carol", "Carol")

	c.Assert(f.follow.Follow(ctx, bob, alice), qt.IsNil)
	c.Assert(f.follow.Follow(ctx, carol, alice), qt.IsNil)
	c.Assert(f.follow.Follow(ctx, alice, bob), qt.IsNil)

	counts, err := f.follow.Counts(ctx, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(counts.Followers, qt.Equals, int64(2))
	c.Assert(counts.Following, qt.Equals, int64(1))
}
