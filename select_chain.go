//go:build arena_chain

package arena

const forceChain = true
