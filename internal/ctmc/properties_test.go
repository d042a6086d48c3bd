package ctmc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sirModel() Model {
	return Model{
		Rates:       []string{"beta*S*I/(S+I+R)", "gamma*I"},
		Transitions: [][]float64{{-1, 1, 0, 1}, {0, -1, 1, 0}},
		Symbols:     []string{"S", "I", "R", "beta", "gamma"},
		Params:      []float64{0.4, 0.1},
	}
}

func unitGrid(n int) []float64 {
	T := make([]float64, n+1)
	for i := range T {
		T[i] = float64(i)
	}
	return T
}

var _ = Describe("Simulator", func() {
	Describe("birth process", func() {
		var res *Result

		BeforeEach(func() {
			var err error
			res, err = Simulate(NewSource(2024), []float64{0, 1, 2, 3}, 0, 3, 10000,
				State{1, 0}, []string{"lambda * x0"}, [][]float64{{1, 0}}, []float64{1}, []string{"x0", "lambda"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts from the initial condition", func() {
			Expect(res.Trajectory[0]).To(Equal(State{1, 0}))
		})

		It("records between 1 and len(T) entries", func() {
			Expect(len(res.Trajectory)).To(BeNumerically(">=", 1))
			Expect(len(res.Trajectory)).To(BeNumerically("<=", 4))
		})

		It("never decreases and never drops below one", func() {
			for i, x := range res.Trajectory {
				Expect(x[0]).To(BeNumerically(">=", 1))
				if i > 0 {
					Expect(x[0]).To(BeNumerically(">=", res.Trajectory[i-1][0]))
				}
			}
		})

		It("stops on a reporting boundary", func() {
			Expect(res.Termination).To(BeElementOf(ReportsExhausted, HorizonReached))
		})
	})

	Describe("two-state toggle", func() {
		It("never produces negative counts", func() {
			sim, err := New(Model{
				Rates:       []string{"beta*S", "gamma*(1 - S)"},
				Transitions: [][]float64{{-1, 1}, {1, -1}},
				Symbols:     []string{"S", "beta", "gamma"},
				Params:      []float64{1, 1},
			})
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.Run(NewSource(5), State{1, 0}, RunConfig{ReportTimes: unitGrid(20), TMax: 20, MaxIter: 100000})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Events).To(BeNumerically(">", 1))

			for _, x := range res.Trajectory {
				Expect(x[0]).To(BeNumerically(">=", 0))
				Expect(x[1]).To(BeNumerically(">=", 0))
				Expect(x[0] + x[1]).To(Equal(1.0))
			}
		})
	})

	Describe("zero rates at the initial state", func() {
		It("is absorbed immediately with a single entry", func() {
			sim, err := New(sirModel())
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.Run(NewSource(1), State{100, 0, 0, 0}, RunConfig{ReportTimes: unitGrid(10), TMax: 10, MaxIter: 100})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Termination).To(Equal(Absorbed))
			Expect(res.Trajectory).To(HaveLen(1))
		})
	})

	Describe("reproducibility", func() {
		It("gives identical trajectories for equal seeds", func() {
			sim, err := New(sirModel())
			Expect(err).NotTo(HaveOccurred())
			cfg := RunConfig{ReportTimes: unitGrid(100), TMax: 100, MaxIter: 1000000}

			a, err := sim.Run(NewSource(99), State{990, 10, 0, 10}, cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.Run(NewSource(99), State{990, 10, 0, 10}, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Trajectory).To(Equal(b.Trajectory))
			Expect(a.Termination).To(Equal(b.Termination))
			Expect(a.FinalTime).To(Equal(b.FinalTime))
		})
	})

	Describe("SIR epidemic", func() {
		var (
			res *Result
			obs *timeObserver
		)

		BeforeEach(func() {
			sim, err := New(sirModel())
			Expect(err).NotTo(HaveOccurred())
			obs = &timeObserver{}
			sim.AddObserver(obs)

			res, err = sim.Run(NewSource(11), State{990, 10, 0, 10}, RunConfig{ReportTimes: unitGrid(200), TMax: 200, MaxIter: 1000000})
			Expect(err).NotTo(HaveOccurred())
		})

		It("conserves the population in every record", func() {
			for _, x := range res.Trajectory {
				Expect(x[0] + x[1] + x[2]).To(Equal(1000.0))
			}
		})

		It("keeps cumulative incidence non-decreasing", func() {
			for i := 1; i < len(res.Trajectory); i++ {
				Expect(res.Trajectory[i][3]).To(BeNumerically(">=", res.Trajectory[i-1][3]))
			}
		})

		It("advances time strictly at each event", func() {
			Expect(obs.times).To(HaveLen(res.Events))
			for i := 1; i < len(obs.times); i++ {
				Expect(obs.times[i]).To(BeNumerically(">", obs.times[i-1]))
			}
		})

		It("records exactly the boundaries crossed", func() {
			Expect(res.Times).To(HaveLen(len(res.Trajectory)))
			Expect(len(res.Trajectory) + len(res.Skipped)).To(BeNumerically("<=", 201))
		})
	})
})
