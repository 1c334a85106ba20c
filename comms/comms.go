/*
Package comms provides the message passing transport connecting compute
ranks. Ranks live in one process as goroutines; each ordered rank pair owns
an unbuffered channel, so Send is a blocking rendezvous exactly like a
synchronous MPI send. All collective operations are built from these
point-to-point primitives with a deterministic ordering both sides can
compute independently, which is what makes the precomputed exchange
schedules deadlock free.

There is no retry or timeout anywhere: a malformed transfer is a fatal
error that panics and tears down the whole run, consistent with bulk
synchronous execution on reliable transports.
*/
package comms

import (
	"fmt"
)

type packet struct {
	tag  int
	data []float64
}

// Cluster owns the channel fabric for a fixed number of ranks
type Cluster struct {
	size  int
	pairs [][]chan packet // pairs[source][dest]
}

func NewCluster(size int) (c *Cluster) {
	if size < 1 {
		panic(fmt.Errorf("cluster size must be positive, got %d", size))
	}
	c = &Cluster{
		size:  size,
		pairs: make([][]chan packet, size),
	}
	for src := 0; src < size; src++ {
		c.pairs[src] = make([]chan packet, size)
		for dst := 0; dst < size; dst++ {
			c.pairs[src][dst] = make(chan packet)
		}
	}
	return
}

func (c *Cluster) Size() int { return c.size }

// Comm returns the communicator endpoint for one rank. Each rank goroutine
// must use only its own endpoint.
func (c *Cluster) Comm(rank int) *Comm {
	if rank < 0 || rank >= c.size {
		panic(fmt.Errorf("rank %d out of range [0,%d)", rank, c.size))
	}
	return &Comm{cluster: c, rank: rank}
}

type Comm struct {
	cluster *Cluster
	rank    int
}

func (c *Comm) Rank() int { return c.rank }
func (c *Comm) Size() int { return c.cluster.size }

// Send transmits data to dest, blocking until the matching Recv is posted.
// The payload is copied so the caller may reuse its buffer immediately.
func (c *Comm) Send(data []float64, dest, tag int) {
	if dest < 0 || dest >= c.cluster.size {
		panic(fmt.Errorf("send to invalid rank %d", dest))
	}
	if dest == c.rank {
		panic("rank sending to itself; local ranges must be copied, not transferred")
	}
	payload := make([]float64, len(data))
	copy(payload, data)
	c.cluster.pairs[c.rank][dest] <- packet{tag: tag, data: payload}
}

// Recv blocks until a message from source arrives and copies it into buf.
// Any tag matches; the received length must equal len(buf).
func (c *Comm) Recv(buf []float64, source int) {
	if source < 0 || source >= c.cluster.size {
		panic(fmt.Errorf("receive from invalid rank %d", source))
	}
	p := <-c.cluster.pairs[source][c.rank]
	if len(p.data) != len(buf) {
		panic(fmt.Errorf("rank %d received %d values from rank %d, expected %d",
			c.rank, len(p.data), source, len(buf)))
	}
	copy(buf, p.data)
}

// AllReduceSum sums source element-wise across every rank in group and
// leaves the total in dest on all of them. The group must list the same
// ranks in the same order on every participant; the lowest listed rank
// serves as the reduction root.
func (c *Comm) AllReduceSum(group []int, source, dest []float64) {
	if len(source) != len(dest) {
		panic("allreduce source/dest length mismatch")
	}
	if len(group) == 1 {
		copy(dest, source)
		return
	}
	root := group[0]
	if c.rank == root {
		copy(dest, source)
		scratch := make([]float64, len(source))
		for _, member := range group[1:] {
			c.Recv(scratch, member)
			for i, val := range scratch {
				dest[i] += val
			}
		}
		for _, member := range group[1:] {
			c.Send(dest, member, tagReduce)
		}
	} else {
		c.Send(source, root, tagReduce)
		c.Recv(dest, root)
	}
}

// Gather concentrates each group member's fixed-size contribution on the
// group root, concatenated in group order. Non-root ranks get nil back.
func (c *Comm) Gather(group []int, send []float64) (gathered []float64) {
	root := group[0]
	if c.rank != root {
		c.Send(send, root, tagGather)
		return nil
	}
	gathered = make([]float64, len(send)*len(group))
	copy(gathered, send)
	for i, member := range group[1:] {
		c.Recv(gathered[(i+1)*len(send):(i+2)*len(send)], member)
	}
	return
}

const (
	tagReduce = 1
	tagGather = 2
)
