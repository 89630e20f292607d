package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/api"
)

func ptr(s string) *string { return &s }

// createSession creates a session and returns its ID with a client bound to its token.
func createSession(t *testing.T, env *testEnv, mode string) (string, api.SessionServiceClient) {
	t.Helper()
	resp, err := env.sessions.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{Mode: mode}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if resp.Msg.Token == "" {
		t.Fatal("expected a session token")
	}
	return resp.Msg.Session.ID, env.sessionClient(resp.Msg.Token)
}

func addPerson(t *testing.T, client api.SessionServiceClient, sessionID, name string) string {
	t.Helper()
	resp, err := client.AddPerson(context.Background(), connect.NewRequest(&api.AddPersonRequest{
		SessionID: sessionID,
		Name:      name,
	}))
	if err != nil {
		t.Fatalf("AddPerson(%q) failed: %v", name, err)
	}
	return resp.Msg.PersonID
}

func addItem(t *testing.T, client api.SessionServiceClient, sessionID, personID, name string, amount float64) string {
	t.Helper()
	resp, err := client.AddItem(context.Background(), connect.NewRequest(&api.AddItemRequest{
		SessionID: sessionID,
		PersonID:  personID,
		Name:      name,
		Amount:    amount,
	}))
	if err != nil {
		t.Fatalf("AddItem(%q) failed: %v", name, err)
	}
	return resp.Msg.ItemID
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func TestCreateSession(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := env.sessions.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if resp.Msg.Session.Mode != "equal" {
		t.Errorf("expected default mode equal, got %q", resp.Msg.Session.Mode)
	}
	claims, err := env.tokens.Validate(resp.Msg.Token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.SessionID != resp.Msg.Session.ID {
		t.Errorf("token session = %s, want %s", claims.SessionID, resp.Msg.Session.ID)
	}

	_, err = env.sessions.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{Mode: "weighted"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestSessionAccessControl(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	sessionID, _ := createSession(t, env, "registered")
	_, otherClient := createSession(t, env, "registered")

	// No token at all
	_, err := env.sessions.GetSession(context.Background(), connect.NewRequest(&api.GetSessionRequest{SessionID: sessionID}))
	assertCode(t, err, connect.CodeUnauthenticated)

	// Token for a different session
	_, err = otherClient.GetSession(context.Background(), connect.NewRequest(&api.GetSessionRequest{SessionID: sessionID}))
	assertCode(t, err, connect.CodePermissionDenied)

	// Garbage token
	_, err = env.sessionClient("garbage").GetSession(context.Background(), connect.NewRequest(&api.GetSessionRequest{SessionID: sessionID}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestSessionEqualFlow(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	sessionID, client := createSession(t, env, "equal")
	ctx := context.Background()

	_, err := client.SetFields(ctx, connect.NewRequest(&api.SetFieldsRequest{
		SessionID:   sessionID,
		TotalAmount: ptr("100"),
		PeopleCount: ptr("3"),
	}))
	if err != nil {
		t.Fatalf("SetFields failed: %v", err)
	}

	resp, err := client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !resp.Msg.Split.Computed {
		t.Fatalf("expected computed split, got reason %q", resp.Msg.Split.Reason)
	}
	if len(resp.Msg.Session.People) != 3 {
		t.Fatalf("expected 3 synthetic people, got %d", len(resp.Msg.Session.People))
	}
	for _, s := range resp.Msg.Split.Result.Shares {
		if s.Amount != 33 {
			t.Errorf("%s: expected 33, got %d", s.Name, s.Amount)
		}
	}

	// The result survives a reload
	got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Msg.Session.Result == nil || got.Msg.Session.Result.Remainder != 1 {
		t.Errorf("expected stored result with remainder 1, got %+v", got.Msg.Session.Result)
	}

	// Zero people clears the result instead of failing
	_, err = client.SetFields(ctx, connect.NewRequest(&api.SetFieldsRequest{SessionID: sessionID, PeopleCount: ptr("0")}))
	if err != nil {
		t.Fatalf("SetFields failed: %v", err)
	}
	resp, err = client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("Calculate with invalid input must not fail: %v", err)
	}
	if resp.Msg.Split.Computed {
		t.Error("expected no result for zero people")
	}
	if resp.Msg.Session.Result != nil {
		t.Errorf("expected stale result cleared, got %+v", resp.Msg.Session.Result)
	}
	if len(resp.Msg.Session.People) != 0 {
		t.Errorf("expected synthetic people cleared, got %d", len(resp.Msg.Session.People))
	}

	// An unbounded count is invalid input, not a crash
	_, err = client.SetFields(ctx, connect.NewRequest(&api.SetFieldsRequest{SessionID: sessionID, PeopleCount: ptr("9223372036854775807")}))
	if err != nil {
		t.Fatalf("SetFields failed: %v", err)
	}
	resp, err = client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("Calculate with a huge count must not fail: %v", err)
	}
	if resp.Msg.Split.Computed {
		t.Error("expected no result for an unbounded people count")
	}
	if resp.Msg.Session.TotalAmount != "100" {
		t.Errorf("expected total field kept, got %q", resp.Msg.Session.TotalAmount)
	}
}

func TestSessionRandomFlow(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	sessionID, client := createSession(t, env, "random")
	ctx := context.Background()

	alice := addPerson(t, client, sessionID, "Alice")
	addPerson(t, client, sessionID, "Bob")

	if _, err := client.SetFields(ctx, connect.NewRequest(&api.SetFieldsRequest{SessionID: sessionID, TotalAmount: ptr("50")})); err != nil {
		t.Fatalf("SetFields failed: %v", err)
	}

	resp, err := client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !resp.Msg.Split.Computed {
		t.Fatalf("expected computed split, got reason %q", resp.Msg.Split.Reason)
	}

	var sum int64
	for _, s := range resp.Msg.Split.Result.Shares {
		if s.Amount < 0 {
			t.Errorf("%s: negative share %d", s.Name, s.Amount)
		}
		sum += s.Amount
	}
	if sum != 50 {
		t.Errorf("expected shares to sum to 50, got %d", sum)
	}
	if resp.Msg.Split.Result.Shares[0].PersonID != alice {
		t.Errorf("expected first share for Alice, got %+v", resp.Msg.Split.Result.Shares[0])
	}
	for _, p := range resp.Msg.Session.People {
		if len(p.Items) != 1 {
			t.Errorf("%s: expected one share item, got %d", p.Name, len(p.Items))
		}
	}
}

func TestSessionRegisteredFlow(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	sessionID, client := createSession(t, env, "registered")
	ctx := context.Background()

	a := addPerson(t, client, sessionID, "A")
	b := addPerson(t, client, sessionID, "B")
	addItem(t, client, sessionID, a, "Pizza", 10)
	beer := addItem(t, client, sessionID, a, "Beer", 4)
	addItem(t, client, sessionID, b, "Salad", 20)

	if _, err := client.UpdateItem(ctx, connect.NewRequest(&api.UpdateItemRequest{
		SessionID: sessionID, PersonID: a, ItemID: beer, Name: "Beer", Amount: 5,
	})); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	resp, err := client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if resp.Msg.Split.Result.Total != 35 {
		t.Errorf("expected total 35, got %d", resp.Msg.Split.Result.Total)
	}
	if resp.Msg.Session.TotalAmount != "35" {
		t.Errorf("expected derived total field 35, got %q", resp.Msg.Session.TotalAmount)
	}

	// Negative amounts are rejected at entry
	_, err = client.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{SessionID: sessionID, PersonID: b, Name: "Refund", Amount: -3}))
	assertCode(t, err, connect.CodeInvalidArgument)

	// Unknown person
	_, err = client.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{SessionID: sessionID, PersonID: "nobody", Amount: 3}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := client.RemovePerson(ctx, connect.NewRequest(&api.RemovePersonRequest{SessionID: sessionID, PersonID: b})); err != nil {
		t.Fatalf("RemovePerson failed: %v", err)
	}
	resp, err = client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if resp.Msg.Split.Result.Total != 15 {
		t.Errorf("expected total 15 after removing B, got %d", resp.Msg.Split.Result.Total)
	}
}

func TestSelectModeClearsSession(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	sessionID, client := createSession(t, env, "registered")
	ctx := context.Background()

	a := addPerson(t, client, sessionID, "A")
	addItem(t, client, sessionID, a, "Pizza", 10)
	if _, err := client.Calculate(ctx, connect.NewRequest(&api.CalculateRequest{SessionID: sessionID})); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	resp, err := client.SelectMode(ctx, connect.NewRequest(&api.SelectModeRequest{SessionID: sessionID, Mode: "equal"}))
	if err != nil {
		t.Fatalf("SelectMode failed: %v", err)
	}
	s := resp.Msg.Session
	if s.Mode != "equal" {
		t.Errorf("expected mode equal, got %q", s.Mode)
	}
	if len(s.People) != 0 || s.TotalAmount != "" || s.PeopleCount != "" || s.Result != nil {
		t.Errorf("expected cleared session, got %+v", s)
	}

	// People cannot be registered in equal mode
	_, err = client.AddPerson(ctx, connect.NewRequest(&api.AddPersonRequest{SessionID: sessionID, Name: "B"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SelectMode(ctx, connect.NewRequest(&api.SelectModeRequest{SessionID: sessionID, Mode: "bogus"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestResetAndDeleteSession(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	sessionID, client := createSession(t, env, "random")
	ctx := context.Background()

	addPerson(t, client, sessionID, "Alice")
	resp, err := client.ResetSession(ctx, connect.NewRequest(&api.ResetSessionRequest{SessionID: sessionID}))
	if err != nil {
		t.Fatalf("ResetSession failed: %v", err)
	}
	if resp.Msg.Session.Mode != "random" || len(resp.Msg.Session.People) != 0 {
		t.Errorf("expected empty random session, got %+v", resp.Msg.Session)
	}

	if _, err := client.DeleteSession(ctx, connect.NewRequest(&api.DeleteSessionRequest{SessionID: sessionID})); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	_, err = client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: sessionID}))
	assertCode(t, err, connect.CodeNotFound)
}
