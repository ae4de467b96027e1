// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package contract

type MockState struct {
	StateMap map[string][]byte
}

func NewMockState() *MockState {
	return &MockState{
		StateMap: make(map[string][]byte),
	}
}

func (ms *MockState) GetState(key []byte) []byte {
	return ms.StateMap[string(key)]
}

func (ms *MockState) SetState(key, value []byte) {
	ms.StateMap[string(key)] = value
}

// MockCallContext records finished values and created async calls
type MockCallContext struct {
	MockCaller []byte
	MockMethod string
	MockArgs   [][]byte
	State      *MockState

	Finished   [][]byte
	AsyncCalls []*AsyncCall
}

var _ CallContext = (*MockCallContext)(nil)

func (ctx *MockCallContext) Caller() []byte {
	return ctx.MockCaller
}

func (ctx *MockCallContext) Method() string {
	return ctx.MockMethod
}

func (ctx *MockCallContext) Args() [][]byte {
	return ctx.MockArgs
}

func (ctx *MockCallContext) GetState(key []byte) []byte {
	return ctx.State.GetState(key)
}

func (ctx *MockCallContext) SetState(key, value []byte) {
	ctx.State.SetState(key, value)
}

func (ctx *MockCallContext) Finish(value []byte) {
	ctx.Finished = append(ctx.Finished, value)
}

func (ctx *MockCallContext) CreateAsyncCall(call *AsyncCall) {
	ctx.AsyncCalls = append(ctx.AsyncCalls, call)
}
