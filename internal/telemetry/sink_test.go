package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(subj string, data []byte) error {
	f.subject, f.data = subj, data
	return f.err
}

type fakeSQS struct {
	in *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.in = in
	return &sqs.SendMessageOutput{}, nil
}

func TestNATSSink(t *testing.T) {
	pub := &fakePublisher{}
	ev := api.NewScoredEvent("ac1", "run-1", "java", "success", 50, 1, 1)
	require.NoError(t, telemetry.NewNATSSink(pub, "activecode.events").Log(context.Background(), ev))

	assert.Equal(t, "activecode.events", pub.subject)
	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.data, &got))
	assert.Equal(t, "unittest", got["event"])
	assert.Equal(t, "ac1", got["div_id"])
	assert.Equal(t, "percent:50.0:passed:1:failed:1", got["act"])
	assert.Equal(t, false, got["correct"])
}

func TestSQSSink(t *testing.T) {
	client := &fakeSQS{}
	ev := api.NewRunEvent("ac2", "run-2", "python3", "success", "run")
	require.NoError(t, telemetry.NewSQSSink(client, "https://sqs.example/q").Log(context.Background(), ev))

	assert.Equal(t, "https://sqs.example/q", aws.ToString(client.in.QueueUrl))
	assert.Contains(t, aws.ToString(client.in.MessageBody), `"div_id":"ac2"`)
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	rec := &telemetry.Recorder{}
	bad := &fakePublisher{err: errors.New("no responders")}
	var buf bytes.Buffer

	m := telemetry.MultiSink{telemetry.NewNATSSink(bad, "s"), rec, telemetry.NewTerminalSink(&buf)}
	err := m.Log(context.Background(), api.NewRunEvent("ac3", "r", "c", "fail", "run"))
	require.Error(t, err)
	assert.ErrorIs(t, err, bad.err)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "ac3", last.DivID)
	assert.Contains(t, buf.String(), "ac3")
}
