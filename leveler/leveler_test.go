package leveler_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"

	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/fengine/mockfengine"
	"github.com/casm-project/snapfleet/leveler"
)

var _ = Describe("Leveler", func() {
	var (
		mockCtrl *gomock.Controller
		fe       *mockfengine.MockFengine
		corr     *mockfengine.MockCorrelator
		eq       *mockfengine.MockEq
		lev      *leveler.Leveler
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ctx = context.Background()

		fe = mockfengine.NewMockFengine(mockCtrl)
		corr = mockfengine.NewMockCorrelator(mockCtrl)
		eq = mockfengine.NewMockEq(mockCtrl)

		fe.EXPECT().Host().Return("snap01").AnyTimes()
		fe.EXPECT().Corr().Return(corr).AnyTimes()
		fe.EXPECT().Eq().Return(eq).AnyTimes()

		lev = leveler.MakeBuilder().
			WithNumInputs(1).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	flatSpectrum := func(power float64) []float64 {
		s := make([]float64, fengine.NChanTotal)
		for i := range s {
			s[i] = power
		}
		return s
	}

	It("should level a flat spectrum to the target amplitude", func() {
		const power = 100.0

		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 0, 0).
			Return(flatSpectrum(power), nil).
			Times(4)

		var committed []float64
		eq.EXPECT().
			SetCoefficients(gomock.Any(), 0, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, coeffs []float64) error {
				committed = coeffs
				return nil
			})

		results, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Fallback).To(BeFalse())

		// Four summed flat reads give 4*power per bin; smoothing a
		// constant is the identity, so every coefficient lands on
		// target / sqrt(4 * power).
		want := (2.5 * 4) / math.Sqrt(4*power)
		Expect(committed).To(HaveLen(leveler.NCoeff))
		for _, c := range committed {
			Expect(c).To(BeNumerically("~", want, 1e-9))
		}
	})

	It("should patch exact-zero bins with the read's median", func() {
		const power = 64.0
		spectrum := flatSpectrum(power)
		for i := 0; i < len(spectrum); i += 512 {
			spectrum[i] = 0
		}

		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 0, 0).
			DoAndReturn(func(context.Context, int, int) ([]float64, error) {
				s := make([]float64, len(spectrum))
				copy(s, spectrum)
				return s, nil
			}).
			Times(4)

		var committed []float64
		eq.EXPECT().
			SetCoefficients(gomock.Any(), 0, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, coeffs []float64) error {
				committed = coeffs
				return nil
			})

		results, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())
		Expect(results[0].Fallback).To(BeFalse())

		want := (2.5 * 4) / math.Sqrt(4*power)
		for _, c := range committed {
			Expect(c).To(BeNumerically("~", want, 1e-6))
		}
	})

	It("should fall back to the flat default when a read fails", func() {
		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 0, 0).
			Return(nil, errors.New("bus timeout"))

		var committed []float64
		eq.EXPECT().
			SetCoefficients(gomock.Any(), 0, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, coeffs []float64) error {
				committed = coeffs
				return nil
			})

		results, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Fallback).To(BeTrue())

		Expect(committed).To(HaveLen(leveler.NCoeff))
		for _, c := range committed {
			Expect(c).To(Equal(leveler.DefaultCoeff))
		}
	})

	It("should fall back without raising on an all-zero spectrum", func() {
		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 0, 0).
			Return(flatSpectrum(0), nil).
			Times(4)

		eq.EXPECT().
			SetCoefficients(gomock.Any(), 0, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, coeffs []float64) error {
				for _, c := range coeffs {
					Expect(c).To(BeNumerically(">", 0))
				}
				return nil
			})

		results, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())
		Expect(results[0].Fallback).To(BeTrue())
	})

	It("should use the caller-supplied default on the fallback path", func() {
		lev = leveler.MakeBuilder().
			WithNumInputs(1).
			WithDefaultCoeff(7.5).
			Build()

		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 0, 0).
			Return(nil, errors.New("bus timeout"))

		eq.EXPECT().
			SetCoefficients(gomock.Any(), 0, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, coeffs []float64) error {
				for _, c := range coeffs {
					Expect(c).To(Equal(7.5))
				}
				return nil
			})

		_, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should fail one input without touching its siblings", func() {
		lev = leveler.MakeBuilder().
			WithNumInputs(3).
			Build()

		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 0, 0).
			Return(flatSpectrum(100), nil).
			Times(4)
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 1, 1).
			Return(nil, errors.New("bus timeout"))
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), 2, 2).
			Return(flatSpectrum(100), nil).
			Times(4)

		eq.EXPECT().
			SetCoefficients(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(3)

		results, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Fallback).To(BeFalse())
		Expect(results[1].Fallback).To(BeTrue())
		Expect(results[2].Fallback).To(BeFalse())
	})

	It("should propagate a failure to set the accumulation length", func() {
		corr.EXPECT().
			SetAccLen(gomock.Any(), gomock.Any()).
			Return(errors.New("register write failed"))

		_, err := lev.Level(ctx, fe)
		Expect(err).To(HaveOccurred())
	})

	It("should emit strictly positive coefficients for every result", func() {
		lev = leveler.MakeBuilder().
			WithNumInputs(2).
			Build()

		bandpass := make([]float64, fengine.NChanTotal)
		for i := range bandpass {
			x := float64(i) / float64(fengine.NChanTotal)
			bandpass[i] = 1e5 * (0.1 + math.Pow(math.Sin(math.Pi*x), 2))
		}

		corr.EXPECT().SetAccLen(gomock.Any(), gomock.Any())
		corr.EXPECT().
			PowerSpectrum(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, int, int) ([]float64, error) {
				s := make([]float64, len(bandpass))
				copy(s, bandpass)
				return s, nil
			}).
			Times(8)
		eq.EXPECT().
			SetCoefficients(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		results, err := lev.Level(ctx, fe)
		Expect(err).ToNot(HaveOccurred())

		for _, r := range results {
			Expect(r.Coeffs).To(HaveLen(leveler.NCoeff))
			for _, c := range r.Coeffs {
				Expect(c).To(BeNumerically(">", 0))
			}
		}
	})
})
