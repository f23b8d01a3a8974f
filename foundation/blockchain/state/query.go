package state

// QueryBalance replays the chain to compute the balance of the address.
func (s *State) QueryBalance(address string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.BalanceOf(address)
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Length()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Count()
}

// ValidateChain checks the integrity of the whole chain and returns the first
// violation found.
func (s *State) ValidateChain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.ValidateChain()
}

// IsChainValid is the boolean form of ValidateChain.
func (s *State) IsChainValid() bool {
	return s.ValidateChain() == nil
}
