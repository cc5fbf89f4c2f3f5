package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomie/internal/model"
)

func TestIsHedging(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{answer: "I don't know which hotel is best.", want: true},
		{answer: "I’m not sure about the price.", want: true},
		{answer: "Sorry, I COULDN'T FIND that room.", want: true},
		{answer: "There is no information available for this hotel.", want: true},
		{answer: "Aston Bali Resort has a pool and costs 100 per night.", want: false},
		{answer: "I know exactly the place for you.", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHedging(tt.answer))
		})
	}
}

func TestSynthesizer_Synthesize(t *testing.T) {
	tests := []struct {
		name      string
		intent    model.Intent
		grounding string
		output    string
		want      string
		wantUser  string
	}{
		{
			name:      "Grounded answer",
			intent:    model.IntentPrice,
			grounding: "Average price: 200",
			output:    "  Rooms average 200 per night.  ",
			want:      "Rooms average 200 per night.",
			wantUser:  "Question: how much?\n\nData:\nAverage price: 200",
		},
		{
			name:     "General question has no data block",
			intent:   model.IntentGeneral,
			output:   "Book early.",
			want:     "Book early.",
			wantUser: "how much?",
		},
		{
			name:      "Hedging replaced",
			intent:    model.IntentFacilities,
			grounding: "Facilities: WiFi",
			output:    "I do not have that information.",
			want:      ReplyApology,
			wantUser:  "Question: how much?\n\nData:\nFacilities: WiFi",
		},
		{
			name:     "Empty answer replaced",
			intent:   model.IntentGeneral,
			output:   "   ",
			want:     ReplyApology,
			wantUser: "how much?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := newFakeCompleter(reply(tt.output))
			got, err := NewSynthesizer(completer).Synthesize(context.Background(), tt.intent, "how much?", tt.grounding)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantUser, completer.lastUserContent())
			assert.Equal(t, synthesizeParams, completer.params[0])
			assert.Contains(t, completer.calls[0][0].Content, toneDirectives[tt.intent])
		})
	}
}

func TestSynthesizer_Decline(t *testing.T) {
	completer := newFakeCompleter(reply(""))
	got, err := NewSynthesizer(completer).Decline(context.Background(), "tell me a joke")

	require.NoError(t, err)
	assert.Equal(t, ReplyDecline, got)
	assert.Equal(t, declineParams, completer.params[0])
}
