package bringup_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"

	"github.com/casm-project/snapfleet/bringup"
	"github.com/casm-project/snapfleet/fengine"
	"github.com/casm-project/snapfleet/fengine/mockfengine"
	"github.com/casm-project/snapfleet/layout"
)

var _ = Describe("Orchestrator", func() {
	var (
		mockCtrl  *gomock.Controller
		connector *mockfengine.MockConnector
		fe        *mockfengine.MockFengine
		adc       *mockfengine.MockADC
		eq        *mockfengine.MockEq
		input     *mockfengine.MockInput
		ctx       context.Context

		common layout.CommonSpec
		desc   layout.BoardDescriptor
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ctx = context.Background()

		connector = mockfengine.NewMockConnector(mockCtrl)
		fe = mockfengine.NewMockFengine(mockCtrl)
		adc = mockfengine.NewMockADC(mockCtrl)
		eq = mockfengine.NewMockEq(mockCtrl)
		input = mockfengine.NewMockInput(mockCtrl)

		fe.EXPECT().Host().Return("snap01").AnyTimes()
		fe.EXPECT().ADC().Return(adc).AnyTimes()
		fe.EXPECT().Eq().Return(eq).AnyTimes()
		fe.EXPECT().Input().Return(input).AnyTimes()

		eqCoeff := 2.5
		common = layout.CommonSpec{
			Bitstream:         "feng.fpg",
			ChannelsPerPacket: 512,
			FFTShift:          0xffff,
			EqCoeff:           &eqCoeff,
			Programmed:        true,
			Destinations: []layout.DestinationDescriptor{
				{
					IP: "10.0.0.10", MAC: "02:00:00:00:00:10",
					Port: 10000, StartChan: 0, NChan: 4096,
				},
			},
		}
		desc = layout.BoardDescriptor{
			Host: "snap01",
			Source: layout.SourceDescriptor{
				IP: "10.0.0.1", MAC: "02:00:00:00:00:01", Port: 10000,
			},
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	build := func() *bringup.Orchestrator {
		return bringup.MakeBuilder().
			WithConnector(connector).
			WithCommonSpec(&common).
			Build()
	}

	expectBypassLeveling := func() {
		eq.EXPECT().
			SetCoefficients(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(fengine.NInputs)
	}

	It("should configure a healthy board without enabling transmit", func() {
		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(fe, nil)
		fe.EXPECT().
			Program(gomock.Any(), "feng.fpg", true).
			Return(nil)

		var cfg fengine.StreamConfig
		fe.EXPECT().
			Configure(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c fengine.StreamConfig) error {
				cfg = c
				return nil
			})
		expectBypassLeveling()

		board, err := build().Configure(ctx, desc, 3)
		Expect(err).ToNot(HaveOccurred())
		Expect(board.State).To(Equal(bringup.Idle))
		Expect(board.FengID).To(Equal(3))

		Expect(cfg.EnableTX).To(BeFalse())
		Expect(cfg.FengID).To(Equal(3))
		Expect(cfg.SourceIP).To(Equal("10.0.0.1"))
		Expect(cfg.Destinations).To(HaveLen(1))
		Expect(cfg.MACs).To(HaveKeyWithValue("10.0.0.10", uint64(0x020000000010)))
		Expect(cfg.MACs).To(HaveKeyWithValue("10.0.0.1", uint64(0x020000000001)))
	})

	It("should prefer the layout's feng_id over the positional one", func() {
		fengID := 7
		desc.FengID = &fengID

		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(fe, nil)
		fe.EXPECT().
			Program(gomock.Any(), "feng.fpg", true).
			Return(nil)
		fe.EXPECT().
			Configure(gomock.Any(), gomock.Any()).
			Return(nil)
		expectBypassLeveling()

		board, err := build().Configure(ctx, desc, 3)
		Expect(err).ToNot(HaveOccurred())
		Expect(board.FengID).To(Equal(7))
	})

	It("should retry programming once after re-arming the ADC", func() {
		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(fe, nil)

		gomock.InOrder(
			fe.EXPECT().
				Program(gomock.Any(), "feng.fpg", true).
				Return(errors.New("link training failed")),
			adc.EXPECT().
				Initialize(gomock.Any()).
				Return(nil),
			fe.EXPECT().
				Program(gomock.Any(), "feng.fpg", true).
				Return(nil),
		)
		fe.EXPECT().
			Configure(gomock.Any(), gomock.Any()).
			Return(nil)
		expectBypassLeveling()

		board, err := build().Configure(ctx, desc, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(board.State).To(Equal(bringup.Idle))
	})

	It("should give up after the second programming failure", func() {
		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(fe, nil)

		gomock.InOrder(
			fe.EXPECT().
				Program(gomock.Any(), "feng.fpg", true).
				Return(errors.New("link training failed")),
			adc.EXPECT().
				Initialize(gomock.Any()).
				Return(nil),
			fe.EXPECT().
				Program(gomock.Any(), "feng.fpg", true).
				Return(errors.New("link training failed again")),
		)

		board, err := build().Configure(ctx, desc, 0)
		Expect(err).To(HaveOccurred())

		var progErr *fengine.ProgrammingError
		Expect(errors.As(err, &progErr)).To(BeTrue())
		Expect(progErr.Host).To(Equal("snap01"))
		Expect(board.State).To(Equal(bringup.Connected))
	})

	It("should reject an unsupported gain before touching the board", func() {
		badGain := 15.0
		common.ADCGain = &badGain

		board, err := build().Configure(ctx, desc, 0)
		Expect(err).To(HaveOccurred())

		var cfgErr *fengine.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(board.State).To(Equal(bringup.Disconnected))
	})

	It("should set the gain code on a supported gain", func() {
		gain := 4.0
		common.ADCGain = &gain
		wantCode, err := fengine.GainCode(gain)
		Expect(err).ToNot(HaveOccurred())

		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(fe, nil)
		fe.EXPECT().
			Program(gomock.Any(), "feng.fpg", true).
			Return(nil)
		adc.EXPECT().
			SetGainCode(gomock.Any(), wantCode).
			Return(nil)
		fe.EXPECT().
			Configure(gomock.Any(), gomock.Any()).
			Return(nil)
		expectBypassLeveling()

		_, err = build().Configure(ctx, desc, 0)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should switch the input to a requested test signal", func() {
		common.TestMode = "noise"

		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(fe, nil)
		fe.EXPECT().
			Program(gomock.Any(), "feng.fpg", true).
			Return(nil)
		fe.EXPECT().
			Configure(gomock.Any(), gomock.Any()).
			Return(nil)
		expectBypassLeveling()
		input.EXPECT().
			UseMode(gomock.Any(), fengine.ModeNoise).
			Return(nil)

		board, err := build().Configure(ctx, desc, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(board.State).To(Equal(bringup.Idle))
	})

	It("should report a connection failure as such", func() {
		connector.EXPECT().
			Connect(gomock.Any(), "snap01").
			Return(nil, errors.New("no route to host"))

		board, err := build().Configure(ctx, desc, 0)
		Expect(err).To(HaveOccurred())

		var connErr *fengine.ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(board.State).To(Equal(bringup.Disconnected))
	})

	It("should upload the bitstream first when boards are unprogrammed", func() {
		common.Programmed = false

		dialer := mockfengine.NewMockDialer(mockCtrl)
		transport := mockfengine.NewMockTransport(mockCtrl)

		gomock.InOrder(
			dialer.EXPECT().
				Dial(gomock.Any(), "snap01").
				Return(transport, nil),
			transport.EXPECT().
				Upload(gomock.Any(), "feng.fpg").
				Return(nil),
			transport.EXPECT().Close().Return(nil),
			connector.EXPECT().
				Connect(gomock.Any(), "snap01").
				Return(fe, nil),
		)
		fe.EXPECT().
			Program(gomock.Any(), "feng.fpg", true).
			Return(nil)
		fe.EXPECT().
			Configure(gomock.Any(), gomock.Any()).
			Return(nil)
		expectBypassLeveling()

		o := bringup.MakeBuilder().
			WithConnector(connector).
			WithDialer(dialer).
			WithCommonSpec(&common).
			WithSettleDelay(0).
			Build()

		board, err := o.Configure(ctx, desc, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(board.State).To(Equal(bringup.Idle))
	})
})
