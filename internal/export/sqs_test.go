package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

type fakeSQS struct {
	inputs  []*sqs.SendMessageInput
	sendErr error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSSinkSendsOneMessagePerRecord(t *testing.T) {
	fake := &fakeSQS{}
	sink := &sqsSink{queueURL: "https://sqs.eu-central-1.amazonaws.com/123/news", client: fake}

	records := []domain.CRMRecord{
		{ID: 1, Title: "Бірінші", Category: "education"},
		{ID: 2, Title: "Екінші"},
	}
	if err := sink.Deliver(context.Background(), records); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(fake.inputs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(fake.inputs))
	}

	first := fake.inputs[0]
	if got := *first.QueueUrl; got != sink.queueURL {
		t.Fatalf("unexpected queue url %q", got)
	}
	var rec domain.CRMRecord
	if err := json.Unmarshal([]byte(*first.MessageBody), &rec); err != nil {
		t.Fatalf("decode message body: %v", err)
	}
	if rec.ID != 1 || rec.Title != "Бірінші" {
		t.Fatalf("unexpected message body %+v", rec)
	}
	if got := *first.MessageAttributes["category"].StringValue; got != "education" {
		t.Fatalf("unexpected category attribute %q", got)
	}

	// Missing category falls back to the default bucket.
	if got := *fake.inputs[1].MessageAttributes["category"].StringValue; got != "general" {
		t.Fatalf("expected general fallback, got %q", got)
	}
}

func TestSQSSinkPropagatesSendFailure(t *testing.T) {
	sink := &sqsSink{queueURL: "https://example/queue", client: &fakeSQS{sendErr: errors.New("throttled")}}

	err := sink.Deliver(context.Background(), []domain.CRMRecord{{ID: 7}})
	if err == nil {
		t.Fatalf("expected send failure to surface")
	}
}

func TestNewSQSSinkRequiresQueueURL(t *testing.T) {
	if _, err := NewSQSSink(context.Background(), "", "eu-central-1"); err == nil {
		t.Fatalf("expected error for empty queue url")
	}
}
