package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/matchcast/core/model"
)

func runServer(t *testing.T, jetstream bool) *server.Server {
	t.Helper()
	opts := &server.Options{Port: -1, NoLog: true, NoSigs: true, JetStream: jetstream}
	if jetstream {
		opts.StoreDir = t.TempDir()
	}
	ns, err := server.NewServer(opts)
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server did not start")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestPublishReportCoreNATS(t *testing.T) {
	ns := runServer(t, false)

	sub, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe(DefaultSubject, msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p, err := New(Config{URL: ns.ClientURL()})
	require.NoError(t, err)
	defer p.Close()

	rep := model.Report{ID: "rep-7", Winner: "Blue", Blue: model.AllianceReport{WinPct: 72.4}}
	require.NoError(t, p.PublishReport(context.Background(), rep))

	select {
	case m := <-msgs:
		assert.Equal(t, "rep-7", m.Header.Get(ReportIDHeader))
		var got model.Report
		require.NoError(t, json.Unmarshal(m.Data, &got))
		assert.Equal(t, "Blue", got.Winner)
		assert.InDelta(t, 72.4, got.Blue.WinPct, 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestPublishReportJetStream(t *testing.T) {
	ns := runServer(t, true)

	p, err := New(Config{URL: ns.ClientURL(), Subject: "matchcast.test", Stream: "MATCHCAST"})
	require.NoError(t, err)
	for _, id := range []string{"a", "b"} {
		require.NoError(t, p.PublishReport(context.Background(), model.Report{ID: id}))
	}
	require.NoError(t, p.Close())

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer nc.Close()
	js, err := nc.JetStream()
	require.NoError(t, err)
	info, err := js.StreamInfo("MATCHCAST")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.State.Msgs)

	// a second publisher reuses the existing stream
	again, err := New(Config{URL: ns.ClientURL(), Subject: "matchcast.test", Stream: "MATCHCAST"})
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}

func TestNewUnreachable(t *testing.T) {
	_, err := New(Config{URL: "nats://127.0.0.1:1", TimeoutSeconds: 1})
	assert.Error(t, err)
}
