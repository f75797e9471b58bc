package simulation

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dtnsim/config"
	"github.com/sarchlab/dtnsim/routing"
	"github.com/sarchlab/dtnsim/tracing"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Nodes = 12
	cfg.StationaryNodes = 2
	cfg.Area = config.AreaConfig{Width: 200, Height: 200}
	cfg.RadioRange = 40
	cfg.Bandwidth = 0
	cfg.BufferSize = 10000
	cfg.Mobility.MinSpeed = 2
	cfg.Mobility.MaxSpeed = 5
	cfg.Messages.Interval = 10
	cfg.Messages.MinSize = 100
	cfg.Messages.MaxSize = 200
	cfg.Messages.TTL = 0
	cfg.Duration = 300

	return cfg
}

var _ = Describe("Simulation", func() {
	It("should reject invalid configurations", func() {
		cfg := smallConfig()
		cfg.Nodes = 0

		_, err := MakeBuilder().WithConfig(cfg).WithoutRecording().Build()

		Expect(err).To(MatchError(config.ErrInvalidConfig))
	})

	It("should reject unknown routers", func() {
		cfg := smallConfig()
		cfg.Router = "prophet"

		_, err := MakeBuilder().WithConfig(cfg).WithoutRecording().Build()

		Expect(err).To(MatchError(routing.ErrUnknownStrategy))
	})

	It("should create the configured nodes", func() {
		s, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithoutRecording().
			Build()
		Expect(err).NotTo(HaveOccurred())

		nodes := s.GetWorld().Nodes()
		Expect(nodes).To(HaveLen(12))
		Expect(nodes[0].Name()).To(Equal("s0"))
		Expect(nodes[0].Path()).To(BeNil())
		Expect(nodes[2].Name()).To(Equal("n2"))
		Expect(nodes[2].Path()).To(HaveLen(3))
		Expect(s.GetDataRecorder()).To(BeNil())
	})

	It("should run until the configured duration", func() {
		s, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithoutRecording().
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())

		Expect(s.GetEngine().CurrentTime()).To(BeNumerically("~", 300, 1e-6))

		stats := s.Stats()
		Expect(stats.Created).To(BeNumerically(">=", 30))
		Expect(stats.Delivered).To(BeNumerically("<=", stats.Created))
		Expect(stats.Relayed).To(BeNumerically("<=", stats.Started))
	})

	It("should be reproducible with the same seed", func() {
		run := func() tracing.Stats {
			s, err := MakeBuilder().
				WithConfig(smallConfig()).
				WithoutRecording().
				Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Run()).To(Succeed())

			return s.Stats()
		}

		Expect(run()).To(Equal(run()))
	})

	It("should record into the output file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithOutputFileName(path).
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		db, err := sql.Open("sqlite3", path+".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		var router string
		Expect(db.QueryRow(
			"SELECT Value FROM exec_info WHERE Property='Router'",
		).Scan(&router)).To(Succeed())
		Expect(router).To(Equal("distanceload"))

		var created int
		Expect(db.QueryRow(
			"SELECT COUNT(*) FROM dtn_message WHERE Event='MessageCreated'",
		).Scan(&created)).To(Succeed())
		Expect(created).To(Equal(s.Stats().Created))
	})
})
