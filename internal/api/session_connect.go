package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// SessionServiceName is the fully-qualified name of the SessionService.
const SessionServiceName = "warikan.v1.SessionService"

const (
	SessionServiceCreateSessionProcedure = "/warikan.v1.SessionService/CreateSession"
	SessionServiceGetSessionProcedure    = "/warikan.v1.SessionService/GetSession"
	SessionServiceSelectModeProcedure    = "/warikan.v1.SessionService/SelectMode"
	SessionServiceSetFieldsProcedure     = "/warikan.v1.SessionService/SetFields"
	SessionServiceAddPersonProcedure     = "/warikan.v1.SessionService/AddPerson"
	SessionServiceRenamePersonProcedure  = "/warikan.v1.SessionService/RenamePerson"
	SessionServiceRemovePersonProcedure  = "/warikan.v1.SessionService/RemovePerson"
	SessionServiceAddItemProcedure       = "/warikan.v1.SessionService/AddItem"
	SessionServiceUpdateItemProcedure    = "/warikan.v1.SessionService/UpdateItem"
	SessionServiceRemoveItemProcedure    = "/warikan.v1.SessionService/RemoveItem"
	SessionServiceCalculateProcedure     = "/warikan.v1.SessionService/Calculate"
	SessionServiceResetSessionProcedure  = "/warikan.v1.SessionService/ResetSession"
	SessionServiceDeleteSessionProcedure = "/warikan.v1.SessionService/DeleteSession"
)

// SessionServiceHandler manages server-held bill-splitting sessions.
type SessionServiceHandler interface {
	CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[GetSessionRequest]) (*connect.Response[SessionResponse], error)
	SelectMode(context.Context, *connect.Request[SelectModeRequest]) (*connect.Response[SessionResponse], error)
	SetFields(context.Context, *connect.Request[SetFieldsRequest]) (*connect.Response[SessionResponse], error)
	AddPerson(context.Context, *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error)
	RenamePerson(context.Context, *connect.Request[RenamePersonRequest]) (*connect.Response[SessionResponse], error)
	RemovePerson(context.Context, *connect.Request[RemovePersonRequest]) (*connect.Response[SessionResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	UpdateItem(context.Context, *connect.Request[UpdateItemRequest]) (*connect.Response[SessionResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[SessionResponse], error)
	Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error)
	ResetSession(context.Context, *connect.Request[ResetSessionRequest]) (*connect.Response[SessionResponse], error)
	DeleteSession(context.Context, *connect.Request[DeleteSessionRequest]) (*connect.Response[DeleteSessionResponse], error)
}

// NewSessionServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithCodec()}, opts...)
	mux := http.NewServeMux()
	mux.Handle(SessionServiceCreateSessionProcedure, connect.NewUnaryHandler(
		SessionServiceCreateSessionProcedure, svc.CreateSession, opts...))
	mux.Handle(SessionServiceGetSessionProcedure, connect.NewUnaryHandler(
		SessionServiceGetSessionProcedure, svc.GetSession, opts...))
	mux.Handle(SessionServiceSelectModeProcedure, connect.NewUnaryHandler(
		SessionServiceSelectModeProcedure, svc.SelectMode, opts...))
	mux.Handle(SessionServiceSetFieldsProcedure, connect.NewUnaryHandler(
		SessionServiceSetFieldsProcedure, svc.SetFields, opts...))
	mux.Handle(SessionServiceAddPersonProcedure, connect.NewUnaryHandler(
		SessionServiceAddPersonProcedure, svc.AddPerson, opts...))
	mux.Handle(SessionServiceRenamePersonProcedure, connect.NewUnaryHandler(
		SessionServiceRenamePersonProcedure, svc.RenamePerson, opts...))
	mux.Handle(SessionServiceRemovePersonProcedure, connect.NewUnaryHandler(
		SessionServiceRemovePersonProcedure, svc.RemovePerson, opts...))
	mux.Handle(SessionServiceAddItemProcedure, connect.NewUnaryHandler(
		SessionServiceAddItemProcedure, svc.AddItem, opts...))
	mux.Handle(SessionServiceUpdateItemProcedure, connect.NewUnaryHandler(
		SessionServiceUpdateItemProcedure, svc.UpdateItem, opts...))
	mux.Handle(SessionServiceRemoveItemProcedure, connect.NewUnaryHandler(
		SessionServiceRemoveItemProcedure, svc.RemoveItem, opts...))
	mux.Handle(SessionServiceCalculateProcedure, connect.NewUnaryHandler(
		SessionServiceCalculateProcedure, svc.Calculate, opts...))
	mux.Handle(SessionServiceResetSessionProcedure, connect.NewUnaryHandler(
		SessionServiceResetSessionProcedure, svc.ResetSession, opts...))
	mux.Handle(SessionServiceDeleteSessionProcedure, connect.NewUnaryHandler(
		SessionServiceDeleteSessionProcedure, svc.DeleteSession, opts...))
	return "/" + SessionServiceName + "/", mux
}

// SessionServiceClient is a client for the SessionService.
type SessionServiceClient interface {
	CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[GetSessionRequest]) (*connect.Response[SessionResponse], error)
	SelectMode(context.Context, *connect.Request[SelectModeRequest]) (*connect.Response[SessionResponse], error)
	SetFields(context.Context, *connect.Request[SetFieldsRequest]) (*connect.Response[SessionResponse], error)
	AddPerson(context.Context, *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error)
	RenamePerson(context.Context, *connect.Request[RenamePersonRequest]) (*connect.Response[SessionResponse], error)
	RemovePerson(context.Context, *connect.Request[RemovePersonRequest]) (*connect.Response[SessionResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	UpdateItem(context.Context, *connect.Request[UpdateItemRequest]) (*connect.Response[SessionResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[SessionResponse], error)
	Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error)
	ResetSession(context.Context, *connect.Request[ResetSessionRequest]) (*connect.Response[SessionResponse], error)
	DeleteSession(context.Context, *connect.Request[DeleteSessionRequest]) (*connect.Response[DeleteSessionResponse], error)
}

// NewSessionServiceClient constructs a client for the SessionService served at
// baseURL. Calls other than CreateSession need the session token in an
// Authorization header; middleware.BearerToken adds it.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &sessionServiceClient{
		createSession: connect.NewClient[CreateSessionRequest, CreateSessionResponse](
			httpClient, baseURL+SessionServiceCreateSessionProcedure, opts...),
		getSession: connect.NewClient[GetSessionRequest, SessionResponse](
			httpClient, baseURL+SessionServiceGetSessionProcedure, opts...),
		selectMode: connect.NewClient[SelectModeRequest, SessionResponse](
			httpClient, baseURL+SessionServiceSelectModeProcedure, opts...),
		setFields: connect.NewClient[SetFieldsRequest, SessionResponse](
			httpClient, baseURL+SessionServiceSetFieldsProcedure, opts...),
		addPerson: connect.NewClient[AddPersonRequest, AddPersonResponse](
			httpClient, baseURL+SessionServiceAddPersonProcedure, opts...),
		renamePerson: connect.NewClient[RenamePersonRequest, SessionResponse](
			httpClient, baseURL+SessionServiceRenamePersonProcedure, opts...),
		removePerson: connect.NewClient[RemovePersonRequest, SessionResponse](
			httpClient, baseURL+SessionServiceRemovePersonProcedure, opts...),
		addItem: connect.NewClient[AddItemRequest, AddItemResponse](
			httpClient, baseURL+SessionServiceAddItemProcedure, opts...),
		updateItem: connect.NewClient[UpdateItemRequest, SessionResponse](
			httpClient, baseURL+SessionServiceUpdateItemProcedure, opts...),
		removeItem: connect.NewClient[RemoveItemRequest, SessionResponse](
			httpClient, baseURL+SessionServiceRemoveItemProcedure, opts...),
		calculate: connect.NewClient[CalculateRequest, CalculateResponse](
			httpClient, baseURL+SessionServiceCalculateProcedure, opts...),
		resetSession: connect.NewClient[ResetSessionRequest, SessionResponse](
			httpClient, baseURL+SessionServiceResetSessionProcedure, opts...),
		deleteSession: connect.NewClient[DeleteSessionRequest, DeleteSessionResponse](
			httpClient, baseURL+SessionServiceDeleteSessionProcedure, opts...),
	}
}

type sessionServiceClient struct {
	createSession *connect.Client[CreateSessionRequest, CreateSessionResponse]
	getSession    *connect.Client[GetSessionRequest, SessionResponse]
	selectMode    *connect.Client[SelectModeRequest, SessionResponse]
	setFields     *connect.Client[SetFieldsRequest, SessionResponse]
	addPerson     *connect.Client[AddPersonRequest, AddPersonResponse]
	renamePerson  *connect.Client[RenamePersonRequest, SessionResponse]
	removePerson  *connect.Client[RemovePersonRequest, SessionResponse]
	addItem       *connect.Client[AddItemRequest, AddItemResponse]
	updateItem    *connect.Client[UpdateItemRequest, SessionResponse]
	removeItem    *connect.Client[RemoveItemRequest, SessionResponse]
	calculate     *connect.Client[CalculateRequest, CalculateResponse]
	resetSession  *connect.Client[ResetSessionRequest, SessionResponse]
	deleteSession *connect.Client[DeleteSessionRequest, DeleteSessionResponse]
}

func (c *sessionServiceClient) CreateSession(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *sessionServiceClient) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *sessionServiceClient) SelectMode(ctx context.Context, req *connect.Request[SelectModeRequest]) (*connect.Response[SessionResponse], error) {
	return c.selectMode.CallUnary(ctx, req)
}

func (c *sessionServiceClient) SetFields(ctx context.Context, req *connect.Request[SetFieldsRequest]) (*connect.Response[SessionResponse], error) {
	return c.setFields.CallUnary(ctx, req)
}

func (c *sessionServiceClient) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *sessionServiceClient) RenamePerson(ctx context.Context, req *connect.Request[RenamePersonRequest]) (*connect.Response[SessionResponse], error) {
	return c.renamePerson.CallUnary(ctx, req)
}

func (c *sessionServiceClient) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[SessionResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *sessionServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *sessionServiceClient) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[SessionResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *sessionServiceClient) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[SessionResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *sessionServiceClient) Calculate(ctx context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *sessionServiceClient) ResetSession(ctx context.Context, req *connect.Request[ResetSessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.resetSession.CallUnary(ctx, req)
}

func (c *sessionServiceClient) DeleteSession(ctx context.Context, req *connect.Request[DeleteSessionRequest]) (*connect.Response[DeleteSessionResponse], error) {
	return c.deleteSession.CallUnary(ctx, req)
}
