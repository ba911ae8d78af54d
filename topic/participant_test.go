package topic

import (
	"bytes"
	"errors"
	"testing"
)

func mustParticipant(t *testing.T, topicKey []byte) *Participant {
	t.Helper()
	p, err := New(nil, topicKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func addParticipant(t *testing.T, truster, trusted *Participant) {
	t.Helper()
	pub := trusted.PublicKey()
	if err := truster.AddParticipant(pub[:]); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
}

// Scenario A — shared-key echo.
func TestSharedKeyEcho(t *testing.T) {
	key, err := GenerateTopicKey()
	if err != nil {
		t.Fatalf("GenerateTopicKey: %v", err)
	}

	alice := mustParticipant(t, key)
	bob := mustParticipant(t, key)
	addParticipant(t, bob, alice)

	frame, err := alice.Encode([]byte("Hi Bob!"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	plaintext, err := bob.Decode(frame, false, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(plaintext) != "Hi Bob!" {
		t.Fatalf("plaintext = %q, want %q", plaintext, "Hi Bob!")
	}

	// Alice untrusted, ignore_untrusted=true: decode returns nothing.
	carol := mustParticipant(t, key)
	plaintext, err = carol.Decode(frame, false, true)
	if err != nil {
		t.Fatalf("Decode with ignore_untrusted: %v", err)
	}
	if plaintext != nil {
		t.Fatalf("expected nil plaintext for an untrusted, ignored sender")
	}

	// naive=true: returns the plaintext even with an empty trust set.
	plaintext, err = carol.Decode(frame, true, false)
	if err != nil {
		t.Fatalf("naive Decode: %v", err)
	}
	if string(plaintext) != "Hi Bob!" {
		t.Fatalf("naive plaintext = %q, want %q", plaintext, "Hi Bob!")
	}
}

// Invariant 3: naive mode bypasses both trust lookup and signature
// verification, so a corrupted signature still decodes.
func TestNaiveDecodeIgnoresCorruptedSignature(t *testing.T) {
	key, _ := GenerateTopicKey()
	alice := mustParticipant(t, key)
	carol := mustParticipant(t, key)

	frame, err := alice.Encode([]byte("Hi Bob!"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[1] ^= 0xff // corrupt the signature bytes

	plaintext, err := carol.Decode(frame, true, false)
	if err != nil {
		t.Fatalf("naive Decode with corrupted signature: %v", err)
	}
	if string(plaintext) != "Hi Bob!" {
		t.Fatalf("naive plaintext = %q, want %q", plaintext, "Hi Bob!")
	}
}

// Scenario B — rogue ephemeral: an attacker takes a genuine introduction
// and swaps in their own ephemeral public key, leaving the original
// signing key and its signature (now stale) in place. ConstructReply must
// reject it, since the signature no longer covers the substituted key.
func TestConstructReplyRejectsRogueEphemeral(t *testing.T) {
	key, _ := GenerateTopicKey()
	replier := mustParticipant(t, key)
	newcomer := mustParticipant(t, nil)
	attacker := mustParticipant(t, nil)

	genuineIntro, err := newcomer.ConstructIntro()
	if err != nil {
		t.Fatalf("ConstructIntro (newcomer): %v", err)
	}
	attackerIntro, err := attacker.ConstructIntro()
	if err != nil {
		t.Fatalf("ConstructIntro (attacker): %v", err)
	}

	// tag || newcomer's signing_pub || newcomer's signature (stale) ||
	// attacker's ephemeral public key.
	const signingPubEnd = 1 + 32
	const sigEnd = signingPubEnd + 64
	forged := make([]byte, 0, len(genuineIntro))
	forged = append(forged, genuineIntro[:sigEnd]...)
	forged = append(forged, attackerIntro[sigEnd:]...)

	if _, err := replier.ConstructReply(forged); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

// Scenario C — full discovery: Bob (no key) emits an intro, Alice replies,
// Bob's ParseReply succeeds, and encode/decode works both ways afterward.
func TestFullDiscovery(t *testing.T) {
	key, _ := GenerateTopicKey()
	alice := mustParticipant(t, key)
	bob := mustParticipant(t, nil)

	introFrame, err := bob.ConstructIntro()
	if err != nil {
		t.Fatalf("ConstructIntro: %v", err)
	}

	replyFrame, err := alice.ConstructReply(introFrame)
	if err != nil {
		t.Fatalf("ConstructReply: %v", err)
	}

	ok, err := bob.ParseReply(replyFrame)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if !ok {
		t.Fatalf("ParseReply returned false")
	}
	if !bob.HasTopicKey() {
		t.Fatalf("bob has no topic key after a successful ParseReply")
	}

	addParticipant(t, alice, bob)
	addParticipant(t, bob, alice)

	for _, plaintext := range [][]byte{{}, []byte("a"), make([]byte, 65535)} {
		frame, err := bob.Encode(plaintext)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		got, err := alice.Decode(frame, false, false)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("round trip mismatch for length %d", len(plaintext))
		}

		frame, err = alice.Encode(plaintext)
		if err != nil {
			t.Fatalf("Encode (alice): %v", err)
		}
		got, err = bob.Decode(frame, false, false)
		if err != nil {
			t.Fatalf("Decode (bob): %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("reverse round trip mismatch for length %d", len(plaintext))
		}
	}
}

// Scenario D — cross-talk rejection.
func TestCrossTalkRejection(t *testing.T) {
	key, _ := GenerateTopicKey()
	carol := mustParticipant(t, key)
	bob := mustParticipant(t, key)

	frame, err := carol.Encode([]byte("hi from carol"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := bob.Decode(frame, false, false); !errors.Is(err, ErrUntrustedKey) {
		t.Fatalf("err = %v, want ErrUntrustedKey", err)
	}

	plaintext, err := bob.Decode(frame, false, true)
	if err != nil {
		t.Fatalf("Decode with ignore_untrusted: %v", err)
	}
	if plaintext != nil {
		t.Fatalf("expected nil plaintext for an ignored untrusted sender")
	}

	addParticipant(t, bob, carol)
	plaintext, err = bob.Decode(frame, false, false)
	if err != nil {
		t.Fatalf("Decode after trusting carol: %v", err)
	}
	if string(plaintext) != "hi from carol" {
		t.Fatalf("plaintext = %q, want %q", plaintext, "hi from carol")
	}
}

// Scenario E — wrong-recipient reply: Alice replies to Bob's intro; Dave,
// who has his own pending intro, parses Alice's reply and gets false
// without any state change.
func TestWrongRecipientReply(t *testing.T) {
	key, _ := GenerateTopicKey()
	alice := mustParticipant(t, key)
	bob := mustParticipant(t, nil)
	dave := mustParticipant(t, nil)

	bobIntro, err := bob.ConstructIntro()
	if err != nil {
		t.Fatalf("ConstructIntro (bob): %v", err)
	}
	if _, err := dave.ConstructIntro(); err != nil {
		t.Fatalf("ConstructIntro (dave): %v", err)
	}

	replyToBob, err := alice.ConstructReply(bobIntro)
	if err != nil {
		t.Fatalf("ConstructReply: %v", err)
	}

	ok, err := dave.ParseReply(replyToBob)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if ok {
		t.Fatalf("ParseReply returned true for a reply addressed to someone else")
	}
	if dave.HasTopicKey() {
		t.Fatalf("dave acquired a topic key from a reply addressed to bob")
	}
}

// Scenario F — type-tag misrouting.
func TestTypeTagMisrouting(t *testing.T) {
	key, _ := GenerateTopicKey()
	p := mustParticipant(t, key)
	other := mustParticipant(t, nil)

	introFrame, _ := other.ConstructIntro()
	if _, err := p.Decode(introFrame, false, false); !errors.Is(err, ErrIntroductionReceived) {
		t.Fatalf("err = %v, want ErrIntroductionReceived", err)
	}

	replyFrame, err := p.ConstructReply(introFrame)
	if err != nil {
		t.Fatalf("ConstructReply: %v", err)
	}
	if _, err := p.Decode(replyFrame, false, false); !errors.Is(err, ErrReplyReceived) {
		t.Fatalf("err = %v, want ErrReplyReceived", err)
	}

	if _, err := p.Decode([]byte{'x', 1, 2, 3}, false, false); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

// Invariant 4: mutated signature bytes fail BadSignature once trusted.
func TestTamperedSignatureFailsVerification(t *testing.T) {
	key, _ := GenerateTopicKey()
	alice := mustParticipant(t, key)
	bob := mustParticipant(t, key)
	addParticipant(t, bob, alice)

	frame, _ := alice.Encode([]byte("hello"))
	frame[1] ^= 0xff

	if _, err := bob.Decode(frame, false, false); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

// Invariant 5: mutated ciphertext bytes fail BadCiphertext. The signature
// covers the ciphertext, so a trusted decode stops at ErrBadSignature; naive
// mode skips verification and reaches decryption.
func TestTamperedCiphertextFailsDecryption(t *testing.T) {
	key, _ := GenerateTopicKey()
	alice := mustParticipant(t, key)
	bob := mustParticipant(t, key)
	addParticipant(t, bob, alice)

	frame, _ := alice.Encode([]byte("hello"))
	frame[len(frame)-1] ^= 0xff

	if _, err := bob.Decode(frame, true, false); !errors.Is(err, ErrBadCiphertext) {
		t.Fatalf("err = %v, want ErrBadCiphertext", err)
	}
}

// Invariant 8: frozen key. ParseReply on a participant whose topic key is
// already set returns false and does not mutate state.
func TestParseReplyOnFrozenKeyReturnsFalse(t *testing.T) {
	key, _ := GenerateTopicKey()
	other, _ := GenerateTopicKey()

	alice := mustParticipant(t, key)
	bob := mustParticipant(t, other)

	introFrame, err := bob.ConstructIntro()
	if err != nil {
		t.Fatalf("ConstructIntro: %v", err)
	}
	replyFrame, err := alice.ConstructReply(introFrame)
	if err != nil {
		t.Fatalf("ConstructReply: %v", err)
	}

	ok, err := bob.ParseReply(replyFrame)
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if ok {
		t.Fatalf("ParseReply returned true for a participant whose topic key was already set")
	}
	if !bytes.Equal(bob.topicKey, other) {
		t.Fatalf("topic key changed despite already being set")
	}
}

func TestParseReplyWithoutPendingIntro(t *testing.T) {
	key, _ := GenerateTopicKey()
	alice := mustParticipant(t, key)
	newcomer := mustParticipant(t, nil)

	// Build a reply as if alice were answering an intro, but newcomer
	// never called ConstructIntro.
	ghost := mustParticipant(t, nil)
	introFrame, _ := ghost.ConstructIntro()
	replyFrame, err := alice.ConstructReply(introFrame)
	if err != nil {
		t.Fatalf("ConstructReply: %v", err)
	}

	if _, err := newcomer.ParseReply(replyFrame); !errors.Is(err, ErrNoPendingIntro) {
		t.Fatalf("err = %v, want ErrNoPendingIntro", err)
	}
}

func TestEncodeWithoutTopicKeyFails(t *testing.T) {
	p := mustParticipant(t, nil)
	if _, err := p.Encode([]byte("x")); !errors.Is(err, ErrNoKey) {
		t.Fatalf("err = %v, want ErrNoKey", err)
	}
}

func TestConstructReplyWithoutTopicKeyFails(t *testing.T) {
	p := mustParticipant(t, nil)
	other := mustParticipant(t, nil)
	introFrame, _ := other.ConstructIntro()

	if _, err := p.ConstructReply(introFrame); !errors.Is(err, ErrNoKey) {
		t.Fatalf("err = %v, want ErrNoKey", err)
	}
}

// A second ConstructIntro invalidates the first: a reply encrypted to the
// now-replaced ephemeral key can no longer be opened.
func TestSecondIntroInvalidatesFirst(t *testing.T) {
	key, _ := GenerateTopicKey()
	replier := mustParticipant(t, key)
	newcomer := mustParticipant(t, nil)

	firstIntro, err := newcomer.ConstructIntro()
	if err != nil {
		t.Fatalf("ConstructIntro: %v", err)
	}
	if _, err := newcomer.ConstructIntro(); err != nil {
		t.Fatalf("second ConstructIntro: %v", err)
	}

	staleReply, err := replier.ConstructReply(firstIntro)
	if err != nil {
		t.Fatalf("ConstructReply: %v", err)
	}
	if _, err := newcomer.ParseReply(staleReply); err == nil {
		t.Fatalf("expected an error opening a reply encrypted to a replaced ephemeral key")
	}
}
