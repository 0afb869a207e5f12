package swarm

import (
	"encoding/json"

	"mazeswarm.ai/internal/grid"
	"mazeswarm.ai/internal/protocol"
)

// handleMessage decodes and applies one inbound datagram. Anything
// malformed or unrecognized is logged and dropped; local state is
// never touched on a failed decode.
func (a *Agent) handleMessage(in Inbound) {
	base, err := protocol.DecodeBase(in.Payload)
	if err != nil {
		a.log.Printf("%s: drop unparseable datagram from %s: %v", a.cfg.Name, in.From, err)
		return
	}
	if base.ProtocolVersion != protocol.Version {
		a.log.Printf("%s: drop %s from %s: protocol_version %q", a.cfg.Name, base.Type, in.From, base.ProtocolVersion)
		return
	}
	switch base.Type {
	case protocol.TypeMerge:
		var msg protocol.MergeMsg
		if err := json.Unmarshal(in.Payload, &msg); err != nil {
			a.log.Printf("%s: drop bad MERGE from %s: %v", a.cfg.Name, in.From, err)
			return
		}
		a.applyMerge(msg)
	case protocol.TypeClaim:
		var msg protocol.ClaimMsg
		if err := json.Unmarshal(in.Payload, &msg); err != nil {
			a.log.Printf("%s: drop bad CLAIM from %s: %v", a.cfg.Name, in.From, err)
			return
		}
		a.applyClaim(msg)
	default:
		a.log.Printf("%s: drop unknown message type %q from %s", a.cfg.Name, base.Type, in.From)
	}
}

// applyMerge integrates a peer's discoveries. Idempotent: reapplying
// the same update is a no-op. Only existence is merged, never edges.
func (a *Agent) applyMerge(msg protocol.MergeMsg) {
	for _, ref := range msg.Nodes {
		a.localMap.Record(ref.Cell())
	}
	for _, ref := range msg.Frontiers {
		c := ref.Cell()
		if a.localMap.Contains(c) {
			continue
		}
		a.frontiers.Add(c)
	}
}

func (a *Agent) applyClaim(msg protocol.ClaimMsg) {
	a.claims.Apply(msg.TargetFrontier.Cell(), msg.SenderID)
}

func (a *Agent) broadcastMerge(nodes, frontiers []grid.Cell) {
	if len(nodes) == 0 && len(frontiers) == 0 {
		return
	}
	a.broadcast(protocol.MergeMsg{
		Type:            protocol.TypeMerge,
		ProtocolVersion: protocol.Version,
		SenderID:        a.cfg.ID,
		SenderName:      a.cfg.Name,
		Nodes:           protocol.Refs(nodes),
		Frontiers:       protocol.Refs(frontiers),
	})
}

func (a *Agent) broadcastClaim(f grid.Cell) {
	a.broadcast(protocol.ClaimMsg{
		Type:            protocol.TypeClaim,
		ProtocolVersion: protocol.Version,
		SenderID:        a.cfg.ID,
		SenderName:      a.cfg.Name,
		TargetFrontier:  protocol.Ref(f),
	})
}

func (a *Agent) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	for _, peer := range a.cfg.Peers {
		if err := a.send.Send(peer, b); err != nil {
			a.log.Printf("%s: send to %s: %v", a.cfg.Name, peer, err)
		}
	}
}
