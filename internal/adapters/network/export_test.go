package network

// SetMaxBodySize lowers the response size limit for tests.
func (f *Fetcher) SetMaxBodySize(n int64) {
	f.maxBodySize = n
}
