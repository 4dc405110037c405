// Package colony implements the per-shard cellular-automaton data model:
// cells, the colony life rules that parameterize the kernel, the
// (width+2)x(height+2) shard buffer with its one-cell halo, the local
// kernel contract (one deterministic tick given a shard, an RNG, and a
// rule set), halo export/splice, and colony-event application.
//
// A ColonyShard is the unit of ownership: exactly one worker hosts the
// interior of a given shard at a time, guarded by the shard's own mutex.
// The halo is a shadow copy of neighbouring shards' borders and is
// written only by ApplySplice (border delivery): neither the kernel nor
// ApplyEvent writes it, since colony events only ever touch interior
// cells of the shard they're applied to.
package colony
