package games

import "testing"

func TestBlackjackGameSpec(t *testing.T) {
	game := &BlackjackGame{}

	spec := game.Spec()
	if spec.ID != "blackjack" {
		t.Errorf("expected ID 'blackjack', got '%s'", spec.ID)
	}
	if game.FloatCount(nil) != blackjackMaxCards {
		t.Errorf("expected %d floats, got %d", blackjackMaxCards, game.FloatCount(nil))
	}
}

func TestBlackjackGoldenVector(t *testing.T) {
	game := &BlackjackGame{}
	seeds := Seeds{Server: "test-server-seed-blackjack", Client: "test-client-seed-blackjack"}

	result, err := game.Evaluate(seeds, 2, nil)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	if pv := result.Details["player_value"].(int); pv != 13 {
		t.Errorf("player value = %d, want 13", pv)
	}
	// Dealer starts at 6 and draws to 19.
	if dv := result.Details["dealer_value"].(int); dv != 19 {
		t.Errorf("dealer value = %d, want 19", dv)
	}
	if outcome := result.Details["outcome"].(string); outcome != BlackjackLoss {
		t.Errorf("outcome = %s, want %s", outcome, BlackjackLoss)
	}
	if result.Metric != 0 {
		t.Errorf("multiplier = %v, want 0", result.Metric)
	}
}

func TestBlackjackSettle(t *testing.T) {
	tests := []struct {
		name          string
		playerValue   int
		dealerValue   int
		playerNatural bool
		dealerNatural bool
		expected      string
	}{
		{"both naturals push", 21, 21, true, true, BlackjackPush},
		{"player natural wins", 21, 20, true, false, BlackjackNatural},
		{"dealer natural beats made 21", 21, 21, false, true, BlackjackLoss},
		{"player bust loses", 22, 18, false, false, BlackjackLoss},
		{"dealer bust wins", 18, 22, false, false, BlackjackWin},
		{"higher hand wins", 20, 18, false, false, BlackjackWin},
		{"lower hand loses", 17, 19, false, false, BlackjackLoss},
		{"equal hands push", 18, 18, false, false, BlackjackPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blackjackSettle(tt.playerValue, tt.dealerValue, tt.playerNatural, tt.dealerNatural)
			if got != tt.expected {
				t.Errorf("blackjackSettle() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestBlackjackMultiplier(t *testing.T) {
	tests := []struct {
		outcome  string
		expected float64
	}{
		{BlackjackNatural, 2.5},
		{BlackjackWin, 2.0},
		{BlackjackPush, 1.0},
		{BlackjackLoss, 0},
	}

	for _, tt := range tests {
		if got := BlackjackMultiplier(tt.outcome); got != tt.expected {
			t.Errorf("BlackjackMultiplier(%s) = %v, want %v", tt.outcome, got, tt.expected)
		}
	}
}

func TestBlackjackHandValue(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		expected int
	}{
		{"hard total", []Card{{Rank: "10", Suit: "♦"}, {Rank: "9", Suit: "♥"}}, 19},
		{"soft ace", []Card{{Rank: "A", Suit: "♦"}, {Rank: "6", Suit: "♥"}}, 17},
		{"ace demotes", []Card{{Rank: "A", Suit: "♦"}, {Rank: "6", Suit: "♥"}, {Rank: "9", Suit: "♠"}}, 16},
		{"double ace", []Card{{Rank: "A", Suit: "♦"}, {Rank: "A", Suit: "♥"}}, 12},
		{"natural", []Card{{Rank: "A", Suit: "♦"}, {Rank: "K", Suit: "♥"}}, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blackjackHandValue(tt.cards); got != tt.expected {
				t.Errorf("blackjackHandValue() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestBlackjackDealerDrawsToSeventeen(t *testing.T) {
	game := &BlackjackGame{}
	seeds := Seeds{Server: "dealer_rule_server", Client: "dealer_rule_client"}

	for nonce := uint64(1); nonce <= 200; nonce++ {
		result, err := game.Evaluate(seeds, nonce, nil)
		if err != nil {
			t.Fatalf("evaluation failed: %v", err)
		}

		dealerValue := result.Details["dealer_value"].(int)
		dealerCards := result.Details["dealer_cards"].([]string)

		if dealerValue < 17 {
			t.Fatalf("nonce %d: dealer stood on %d", nonce, dealerValue)
		}
		// A dealer with more than 2 cards must have been under 17 before
		// the last draw; we at least require no draw past a made hand.
		if dealerValue > 26 {
			t.Fatalf("nonce %d: impossible dealer value %d (cards %v)", nonce, dealerValue, dealerCards)
		}
	}
}

func TestDeckOrder(t *testing.T) {
	// Deck index order is part of the verification contract.
	if cardDeck[0].String() != "♦2" {
		t.Errorf("deck[0] = %s, want ♦2", cardDeck[0])
	}
	if cardDeck[3].String() != "♣2" {
		t.Errorf("deck[3] = %s, want ♣2", cardDeck[3])
	}
	if cardDeck[4].String() != "♦3" {
		t.Errorf("deck[4] = %s, want ♦3", cardDeck[4])
	}
	if cardDeck[51].String() != "♣A" {
		t.Errorf("deck[51] = %s, want ♣A", cardDeck[51])
	}
}

func TestGameRegistry(t *testing.T) {
	for _, id := range []string{"dice", "limbo", "plinko", "mines", "blackjack"} {
		game, ok := Get(id)
		if !ok {
			t.Errorf("game %q not registered", id)
			continue
		}
		if game.Spec().ID != id {
			t.Errorf("game ID mismatch: %q vs %q", game.Spec().ID, id)
		}
	}

	if len(List()) != 5 {
		t.Errorf("expected 5 registered games, got %d", len(List()))
	}
}
