package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sarchlab/dtnsim/dtn"
)

var _ = Describe("LogHook", func() {
	var (
		logs *observer.ObservedLogs
		hook *LogHook
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		hook = NewLogHook(zap.New(core))
	})

	It("should log deliveries at info level", func() {
		engine, world := pairWorld(5, 2)
		world.AcceptHook(hook)
		Expect(world.CreateMessage(dtn.NewMessage("m1", "A", "B", 100, 0, 0))).
			To(Succeed())

		runWorld(engine, world)

		delivered := logs.FilterMessage(dtn.HookPosMessageDelivered.Name).All()
		Expect(delivered).To(HaveLen(1))
		Expect(delivered[0].Level).To(Equal(zapcore.InfoLevel))
		Expect(delivered[0].ContextMap()).To(HaveKeyWithValue("msg", "m1"))
		Expect(delivered[0].ContextMap()).To(HaveKeyWithValue("hops", int64(1)))

		Expect(logs.FilterMessage(dtn.HookPosContactUp.Name).Len()).To(Equal(1))
		Expect(logs.FilterMessage(dtn.HookPosTransferStarted.Name).Len()).
			To(Equal(1))
	})

	It("should log the drop reason", func() {
		engine, world := pairWorld(100, 4)
		world.AcceptHook(hook)
		Expect(world.CreateMessage(dtn.NewMessage("m1", "A", "B", 100, 0, 2))).
			To(Succeed())

		runWorld(engine, world)

		dropped := logs.FilterMessage(dtn.HookPosMessageDropped.Name).All()
		Expect(dropped).To(HaveLen(1))
		Expect(dropped[0].ContextMap()).
			To(HaveKeyWithValue("reason", string(dtn.DropExpired)))
	})
})
