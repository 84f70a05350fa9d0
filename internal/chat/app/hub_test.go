package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFrames(t *testing.T, frames [][]byte) []domain.WSResponse {
	t.Helper()
	out := make([]domain.WSResponse, 0, len(frames))
	for _, f := range frames {
		var resp domain.WSResponse
		require.NoError(t, json.Unmarshal(f, &resp))
		out = append(out, resp)
	}
	return out
}

// waitFrames blocks until the write pump has flushed at least n frames
func waitFrames(t *testing.T, conn *fakeConn, n int) [][]byte {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(conn.Frames()) >= n
	}, time.Second, 5*time.Millisecond)
	return conn.Frames()
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub(newLoopbackPubSub())
	client := NewClient(&fakeConn{}, uuid.New().String())
	communityID := uuid.New().String()

	hub.Join(client, communityID)
	hub.Join(client, communityID)
	hub.Join(client, communityID)

	assert.True(t, hub.IsMember(client, communityID))
	assert.Equal(t, 1, hub.RoomSize(communityID))
}

func TestHub_LeaveIsIdempotent(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub(newLoopbackPubSub())
	client := NewClient(&fakeConn{}, uuid.New().String())
	communityID := uuid.New().String()

	hub.Join(client, communityID)
	hub.Leave(client, communityID)
	hub.Leave(client, communityID)

	assert.False(t, hub.IsMember(client, communityID))
	assert.Equal(t, 0, hub.RoomSize(communityID))
}

func TestHub_MultipleRoomsPerClient(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub(newLoopbackPubSub())
	client := NewClient(&fakeConn{}, uuid.New().String())
	roomA := uuid.New().String()
	roomB := uuid.New().String()

	hub.Join(client, roomA)
	hub.Join(client, roomB)

	assert.True(t, hub.IsMember(client, roomA))
	assert.True(t, hub.IsMember(client, roomB))

	hub.Leave(client, roomA)
	assert.False(t, hub.IsMember(client, roomA))
	assert.True(t, hub.IsMember(client, roomB))
}

func TestHub_DropReleasesAllRooms(t *testing.T) {
	logger.SetNewNop()
	hub := NewHub(newLoopbackPubSub())
	client := NewClient(&fakeConn{}, uuid.New().String())
	stayer := NewClient(&fakeConn{}, uuid.New().String())
	roomA := uuid.New().String()
	roomB := uuid.New().String()

	hub.Join(client, roomA)
	hub.Join(client, roomB)
	hub.Join(stayer, roomA)

	hub.Drop(client)

	assert.False(t, hub.IsMember(client, roomA))
	assert.False(t, hub.IsMember(client, roomB))
	assert.True(t, hub.IsMember(stayer, roomA))
	assert.Equal(t, 1, hub.RoomSize(roomA))
	assert.Equal(t, 0, hub.RoomSize(roomB))
}

func TestHub_DeliverIncludesSender(t *testing.T) {
	logger.SetNewNop()
	pubsub := newLoopbackPubSub()
	hub := NewHub(pubsub)
	communityID := uuid.New().String()

	senderConn := &fakeConn{}
	otherConn := &fakeConn{}
	sender := NewClient(senderConn, uuid.New().String())
	other := NewClient(otherConn, uuid.New().String())

	hub.Join(sender, communityID)
	hub.Join(other, communityID)

	require.NoError(t, pubsub.Publish(context.Background(), communityID, domain.EnrichedMessage{
		CommunityID: communityID,
		Content:     "hello room",
		CreatedAt:   "2026-08-30T10:00:00Z",
		Username:    "alice",
		Banner:      "sunset",
	}))

	for _, conn := range []*fakeConn{senderConn, otherConn} {
		frames := decodeFrames(t, waitFrames(t, conn, 1))
		require.Len(t, frames, 1)
		assert.Equal(t, string(domain.MessageReceived), frames[0].Action)
		assert.True(t, frames[0].Success)
		assert.Equal(t, "hello room", frames[0].Payload["content"])
		assert.Equal(t, "alice", frames[0].Payload["username"])
		assert.Equal(t, "sunset", frames[0].Payload["banner"])
		assert.NotContains(t, frames[0].Payload, "user_image")
	}
}

func TestHub_DeliverIsolatedPerRoom(t *testing.T) {
	logger.SetNewNop()
	pubsub := newLoopbackPubSub()
	hub := NewHub(pubsub)
	roomA := uuid.New().String()
	roomB := uuid.New().String()

	connA := &fakeConn{}
	connB := &fakeConn{}
	hub.Join(NewClient(connA, uuid.New().String()), roomA)
	hub.Join(NewClient(connB, uuid.New().String()), roomB)

	require.NoError(t, pubsub.Publish(context.Background(), roomA, domain.EnrichedMessage{
		CommunityID: roomA,
		Content:     "only for room A",
		CreatedAt:   "2026-08-30T10:00:00Z",
		Username:    "alice",
	}))

	waitFrames(t, connA, 1)
	assert.Empty(t, connB.Frames())
}

func TestHub_NoDeliveryAfterLeave(t *testing.T) {
	logger.SetNewNop()
	pubsub := newLoopbackPubSub()
	hub := NewHub(pubsub)
	communityID := uuid.New().String()

	leftConn := &fakeConn{}
	stayConn := &fakeConn{}
	leaver := NewClient(leftConn, uuid.New().String())
	stayer := NewClient(stayConn, uuid.New().String())

	hub.Join(leaver, communityID)
	hub.Join(stayer, communityID)
	hub.Leave(leaver, communityID)

	require.NoError(t, pubsub.Publish(context.Background(), communityID, domain.EnrichedMessage{
		CommunityID: communityID,
		Content:     "after leave",
		CreatedAt:   "2026-08-30T10:00:00Z",
		Username:    "bob",
	}))

	waitFrames(t, stayConn, 1)
	assert.Empty(t, leftConn.Frames())
}

func TestHub_SlowMemberDoesNotStallRoom(t *testing.T) {
	logger.SetNewNop()
	pubsub := newLoopbackPubSub()
	hub := NewHub(pubsub)
	communityID := uuid.New().String()

	slowConn := newStalledConn()
	healthyConn := &fakeConn{}
	hub.Join(NewClient(slowConn, uuid.New().String()), communityID)
	hub.Join(NewClient(healthyConn, uuid.New().String()), communityID)

	for i := 0; i < 10; i++ {
		require.NoError(t, pubsub.Publish(context.Background(), communityID, domain.EnrichedMessage{
			CommunityID: communityID,
			Content:     fmt.Sprintf("message %d", i),
			CreatedAt:   "2026-08-30T10:00:00Z",
			Username:    "alice",
		}))
	}

	frames := decodeFrames(t, waitFrames(t, healthyConn, 10))
	for i, f := range frames {
		assert.Equal(t, fmt.Sprintf("message %d", i), f.Payload["content"])
	}

	close(slowConn.release)
}

func TestHub_SlowMemberIsDroppedWhenBufferFills(t *testing.T) {
	logger.SetNewNop()
	pubsub := newLoopbackPubSub()
	hub := NewHub(pubsub)
	communityID := uuid.New().String()

	slowConn := newStalledConn()
	hub.Join(NewClient(slowConn, uuid.New().String()), communityID)

	// One frame stuck in the pump plus a full buffer; the next enqueue
	// closes the connection instead of blocking.
	for i := 0; i < sendBufferSize+2; i++ {
		require.NoError(t, pubsub.Publish(context.Background(), communityID, domain.EnrichedMessage{
			CommunityID: communityID,
			Content:     "flood",
			CreatedAt:   "2026-08-30T10:00:00Z",
			Username:    "alice",
		}))
	}

	require.Eventually(t, func() bool {
		return slowConn.Closed()
	}, time.Second, 5*time.Millisecond)

	close(slowConn.release)
}
