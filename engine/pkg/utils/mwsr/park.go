package mwsr

// readerPark is where the single reader sleeps while the queue is empty.
// The token survives an unlock that arrives before lockAndWait.
type readerPark struct {
	token chan struct{}
}

func (p *readerPark) init() {
	p.token = make(chan struct{}, 1)
}

func (p *readerPark) lockAndWait() {
	<-p.token
}

func (p *readerPark) unlock() {
	select {
	case p.token <- struct{}{}:
	default:
		panic(invariantf("reader woken twice"))
	}
}
