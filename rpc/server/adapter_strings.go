package server

import (
	"fmt"

	"github.com/strandkv/strand/lib/engine"
	"github.com/strandkv/strand/rpc/common"
)

func NewStringsServerAdapter() IRPCServerAdapter {
	return &stringsServerAdapterImpl{}
}

type stringsServerAdapterImpl struct{}

func (adapter *stringsServerAdapterImpl) Handle(req *common.Message, eng *engine.Engine) (*common.Message, *common.Message) {
	// Check for nil engine
	if eng == nil {
		return common.NewErrorResponse("handler: engine is nil"), nil
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTSet:
		opts := engine.SetOptions{
			NX:     req.NX,
			XX:     req.XX,
			Expire: req.Expire,
		}
		if req.UnitMs {
			opts.Unit = engine.UnitMilliseconds
		}
		stored, fx, err := eng.Set(req.Key, req.Value, opts)
		return common.NewSetResponse(stored, err), replayFor(req, fx)

	case common.MsgTGet:
		val, ok, err := eng.Get(req.Key)
		return common.NewGetResponse(val, ok, err), nil

	case common.MsgTGetSet:
		prev, existed, fx, err := eng.GetSet(req.Key, req.Value)
		return common.NewGetSetResponse(prev, existed, err), replayFor(req, fx)

	case common.MsgTMGet:
		vals := eng.MGet(req.Keys...)
		return common.NewMGetResponse(vals), nil

	case common.MsgTMSet:
		fx, err := eng.MSet(req.Pairs...)
		return common.NewMSetResponse(err), replayFor(req, fx)

	case common.MsgTMSetNX:
		ok, fx, err := eng.MSetNX(req.Pairs...)
		return common.NewMSetNXResponse(ok, err), replayFor(req, fx)

	case common.MsgTIncrBy:
		num, fx, err := eng.IncrBy(req.Key, req.Delta)
		return common.NewCounterResponse(req.MsgType, num, err), replayFor(req, fx)

	case common.MsgTDecrBy:
		num, fx, err := eng.DecrBy(req.Key, req.Delta)
		return common.NewCounterResponse(req.MsgType, num, err), replayFor(req, fx)

	case common.MsgTIncrByFloat:
		val, fx, err := eng.IncrByFloat(req.Key, req.Value)
		return common.NewIncrByFloatResponse(val, err), replayFor(req, fx)

	case common.MsgTAppend:
		num, fx, err := eng.Append(req.Key, req.Value)
		return common.NewAppendResponse(num, err), replayFor(req, fx)

	case common.MsgTStrLen:
		num, err := eng.StrLen(req.Key)
		return common.NewStrLenResponse(num, err), nil

	case common.MsgTGetRange:
		val, err := eng.GetRange(req.Key, req.Start, req.End)
		return common.NewGetRangeResponse(val, err), nil

	case common.MsgTSetRange:
		num, fx, err := eng.SetRange(req.Key, req.Offset, req.Value)
		return common.NewSetRangeResponse(num, err), replayFor(req, fx)

	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC StringsAdapter - Unsupported message type: %s", req.MsgType),
		), nil
	}
}

// replayFor derives the journal form of a handled mutation. Commands that
// changed nothing journal nothing, deterministic commands journal the
// request as-is, and commands with a rewrite journal the rewritten form.
func replayFor(req *common.Message, fx *engine.Effects) *common.Message {
	if fx == nil || fx.Dirty == 0 {
		return nil
	}
	if fx.Rewrite != nil {
		return replayMessage(fx.Rewrite)
	}
	return req
}

// replayMessage converts an engine replay operation into a wire message.
func replayMessage(op *engine.ReplayOp) *common.Message {
	switch op.Name {
	case "SET":
		return common.NewSetRequest(string(op.Args[0]), op.Args[1])
	default:
		// unreachable with the current engine; journal nothing rather
		// than a record we cannot replay
		return nil
	}
}
