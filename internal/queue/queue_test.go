package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_RecordsInOrder(t *testing.T) {
	p := NewMemoryProvider()

	require.NoError(t, p.Publish(context.Background(), "run-1", "https://forum.example/questions/1"))
	require.NoError(t, p.Publish(context.Background(), "run-1", "https://forum.example/questions/2"))

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, Message{RunID: "run-1", PostURL: "https://forum.example/questions/1"}, msgs[0])
	require.Equal(t, Message{RunID: "run-1", PostURL: "https://forum.example/questions/2"}, msgs[1])

	// Messages returns a copy.
	msgs[0].PostURL = "mutated"
	require.Equal(t, "https://forum.example/questions/1", p.Messages()[0].PostURL)

	require.NoError(t, p.Close())
}

func TestNoOpProvider(t *testing.T) {
	p := &NoOpProvider{}
	require.NoError(t, p.Publish(context.Background(), "run-1", "url"))
	require.NoError(t, p.Close())
}
