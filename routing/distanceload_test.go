package routing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/paulmach/orb"
	"go.uber.org/mock/gomock"
)

type neighborParams struct {
	name     string
	numConns int
	numMsgs  int
	path     orb.LineString
}

func mockNeighbor(ctrl *gomock.Controller, p neighborParams) *MockConnection {
	node := NewMockNodeView(ctrl)
	node.EXPECT().Name().Return(p.name).AnyTimes()
	node.EXPECT().NumConnections().Return(p.numConns).AnyTimes()
	node.EXPECT().NumMessages().Return(p.numMsgs).AnyTimes()
	node.EXPECT().Path().Return(p.path).AnyTimes()

	conn := NewMockConnection(ctrl)
	conn.EXPECT().Neighbor().Return(node).AnyTimes()

	return conn
}

func mockMessage(ctrl *gomock.Controller, id string) *MockMessage {
	msg := NewMockMessage(ctrl)
	msg.EXPECT().ID().Return(id).AnyTimes()
	msg.EXPECT().Destination().Return("Z").AnyTimes()

	return msg
}

var _ = Describe("DistanceLoadRouter", func() {
	var (
		mockCtrl *gomock.Controller
		host     *MockHost
		self     *MockNodeView
		router   *DistanceLoadRouter
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		host = NewMockHost(mockCtrl)
		self = NewMockNodeView(mockCtrl)
		self.EXPECT().Name().Return("A").AnyTimes()
		self.EXPECT().Location().Return(orb.Point{0, 0}).AnyTimes()
		router = NewDistanceLoadRouter()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	readyHost := func(msgs []Message, conns []Connection) {
		host.EXPECT().IsTransferring().Return(false)
		host.EXPECT().CanStartTransfer().Return(true)
		host.EXPECT().ExchangeDeliverableMessages().Return(false)
		host.EXPECT().Self().Return(self).AnyTimes()
		host.EXPECT().Messages().Return(msgs).AnyTimes()
		host.EXPECT().Connections().Return(conns).AnyTimes()
	}

	It("should be registered as distanceload", func() {
		Expect(router.Name()).To(Equal("distanceload"))
	})

	It("should do nothing while a transfer is in progress", func() {
		host.EXPECT().IsTransferring().Return(true)

		router.Update(host)
	})

	It("should do nothing when no transfer can start", func() {
		host.EXPECT().IsTransferring().Return(false)
		host.EXPECT().CanStartTransfer().Return(false)

		router.Update(host)
	})

	It("should stop after starting a direct delivery", func() {
		host.EXPECT().IsTransferring().Return(false)
		host.EXPECT().CanStartTransfer().Return(true)
		host.EXPECT().ExchangeDeliverableMessages().Return(true)

		router.Update(host)
	})

	It("should not forward when there are no messages", func() {
		b := mockNeighbor(mockCtrl, neighborParams{"B", 2, 0, orb.LineString{{1, 0}}})
		readyHost(nil, []Connection{b})

		router.Update(host)
	})

	It("should forward to the three best neighbors", func() {
		b := mockNeighbor(mockCtrl, neighborParams{"B", 2, 0, orb.LineString{{1, 0}}})
		c := mockNeighbor(mockCtrl, neighborParams{"C", 3, 1, orb.LineString{{9, 9}, {0, 1}}})
		d := mockNeighbor(mockCtrl, neighborParams{"D", 2, 2, orb.LineString{{3, 4}}})
		e := mockNeighbor(mockCtrl, neighborParams{"E", 4, 3, orb.LineString{{0, -10}}})
		msg := mockMessage(mockCtrl, "m1")

		readyHost([]Message{msg}, []Connection{b, c, d, e})
		sent := recordTransfers(host)

		router.Update(host)

		expectTransfers(*sent,
			transfer{msg, b},
			transfer{msg, c},
			transfer{msg, d},
		)
	})

	It("should find the best neighbors regardless of connection order", func() {
		e := mockNeighbor(mockCtrl, neighborParams{"E", 4, 3, orb.LineString{{0, -10}}})
		d := mockNeighbor(mockCtrl, neighborParams{"D", 2, 2, orb.LineString{{3, 4}}})
		c := mockNeighbor(mockCtrl, neighborParams{"C", 3, 1, orb.LineString{{0, 1}}})
		b := mockNeighbor(mockCtrl, neighborParams{"B", 2, 0, orb.LineString{{1, 0}}})
		msg := mockMessage(mockCtrl, "m1")

		readyHost([]Message{msg}, []Connection{e, d, c, b})
		sent := recordTransfers(host)

		router.Update(host)

		expectTransfers(*sent,
			transfer{msg, b},
			transfer{msg, c},
			transfer{msg, d},
		)
	})

	It("should never use a neighbor with a single connection", func() {
		leaf := mockNeighbor(mockCtrl, neighborParams{"L", 1, 0, orb.LineString{{0, 0}}})
		b := mockNeighbor(mockCtrl, neighborParams{"B", 2, 10, nil})
		msg := mockMessage(mockCtrl, "m1")

		readyHost([]Message{msg}, []Connection{leaf, b})
		sent := recordTransfers(host)

		router.Update(host)

		expectTransfers(*sent,
			transfer{msg, b},
		)
	})

	It("should still use neighbors with an unknown path", func() {
		b := mockNeighbor(mockCtrl, neighborParams{"B", 2, 0, nil})
		msg := mockMessage(mockCtrl, "m1")

		readyHost([]Message{msg}, []Connection{b})
		sent := recordTransfers(host)

		router.Update(host)

		expectTransfers(*sent,
			transfer{msg, b},
		)
	})

	It("should evaluate every message independently", func() {
		b := mockNeighbor(mockCtrl, neighborParams{"B", 2, 0, orb.LineString{{1, 0}}})
		c := mockNeighbor(mockCtrl, neighborParams{"C", 2, 0, orb.LineString{{2, 0}}})
		m1 := mockMessage(mockCtrl, "m1")
		m2 := mockMessage(mockCtrl, "m2")

		readyHost([]Message{m1, m2}, []Connection{b, c})
		sent := recordTransfers(host)

		router.Update(host)

		expectTransfers(*sent,
			transfer{m1, b},
			transfer{m1, c},
			transfer{m2, b},
			transfer{m2, c},
		)
	})
})

type transfer struct {
	msg  Message
	conn Connection
}

// recordTransfers captures forward requests so they can be compared by
// identity. gomock's default matcher compares mocks deeply, which cannot tell
// two mocks apart.
func recordTransfers(host *MockHost) *[]transfer {
	sent := &[]transfer{}
	host.EXPECT().StartTransfer(gomock.Any(), gomock.Any()).
		Do(func(msg Message, conn Connection) {
			*sent = append(*sent, transfer{msg, conn})
		}).
		AnyTimes()

	return sent
}

func expectTransfers(got []transfer, want ...transfer) {
	ExpectWithOffset(1, got).To(HaveLen(len(want)))

	for _, w := range want {
		found := false
		for _, g := range got {
			if g.msg == w.msg && g.conn == w.conn {
				found = true
				break
			}
		}
		ExpectWithOffset(1, found).To(BeTrue(),
			"missing transfer of %s to %s", w.msg.ID(), w.conn.Neighbor().Name())
	}
}
