package services

import (
	"context"
	"testing"
	"time"

	"checkout-service/internal/domain"
	"checkout-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validInput() VerifyPaymentInput {
	return VerifyPaymentInput{
		OrderID:          TestOrderID,
		GatewayOrderID:   TestGatewayOrderID,
		GatewayPaymentID: TestPaymentID,
		GatewaySignature: paymentSignature([]byte(TestSecret), TestGatewayOrderID, TestPaymentID),
	}
}

// tamper flips the first character of the signature.
func tamper(sig string) string {
	b := []byte(sig)
	if b[0] == 'a' {
		b[0] = 'b'
	} else {
		b[0] = 'a'
	}
	return string(b)
}

func TestOrderService_VerifyPayment(t *testing.T) {
	tests := []struct {
		name          string
		input         VerifyPaymentInput
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockPublisher)
		expectedError error
		check         func(*testing.T, *domain.Order)
	}{
		{
			name:  "matching signature moves order to paid with captured=true",
			input: validInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				repo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateTestOrder(TestOrderID, TestUserID, domain.StatusCreated, 900), nil)
				repo.On("UpdateStatusFrom", mock.Anything, TestOrderID, domain.StatusCreated, domain.StatusPaid,
					mock.MatchedBy(func(p *domain.PaymentInfo) bool {
						return p != nil && p.Captured && p.Method == "gateway" &&
							p.GatewayOrderID == TestGatewayOrderID &&
							p.GatewayPaymentID == TestPaymentID &&
							p.GatewaySignature != ""
					})).Return(true, nil)
				pub.On("Publish", mock.Anything, domain.EventOrderPaid, mock.Anything).Return(nil).Maybe()
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.StatusPaid, o.Status)
				assert.True(t, o.Payment.Captured)
				assert.Equal(t, TestPaymentID, o.Payment.GatewayPaymentID)
			},
		},
		{
			name: "tampered signature moves order to failed with captured=false",
			input: func() VerifyPaymentInput {
				in := validInput()
				in.GatewaySignature = tamper(in.GatewaySignature)
				return in
			}(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				repo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateTestOrder(TestOrderID, TestUserID, domain.StatusCreated, 900), nil)
				repo.On("UpdateStatusFrom", mock.Anything, TestOrderID, domain.StatusCreated, domain.StatusFailed,
					mock.MatchedBy(func(p *domain.PaymentInfo) bool {
						return p != nil && !p.Captured
					})).Return(true, nil)
				pub.On("Publish", mock.Anything, domain.EventOrderPaymentFailed, mock.Anything).Return(nil).Maybe()
			},
			expectedError: ErrSignatureMismatch,
		},
		{
			name: "missing field rejected before any lookup",
			input: VerifyPaymentInput{
				OrderID:          TestOrderID,
				GatewayOrderID:   TestGatewayOrderID,
				GatewayPaymentID: "",
				GatewaySignature: "deadbeef",
			},
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: ErrVerifyFieldsMissing,
		},
		{
			name:  "deleted order yields not found",
			input: validInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				repo.On("FindByID", mock.Anything, TestOrderID).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name: "callback for a different remote order is rejected",
			input: func() VerifyPaymentInput {
				in := validInput()
				in.GatewayOrderID = "pay_order_other"
				in.GatewaySignature = paymentSignature([]byte(TestSecret), "pay_order_other", TestPaymentID)
				return in
			}(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				repo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateTestOrder(TestOrderID, TestUserID, domain.StatusCreated, 900), nil)
			},
			expectedError: ErrGatewayOrderMismatch,
		},
		{
			name:  "valid replay against a paid order re-confirms paid",
			input: validInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				paid := CreateTestOrder(TestOrderID, TestUserID, domain.StatusPaid, 900)
				paid.Payment.Captured = true
				paid.Payment.GatewayPaymentID = TestPaymentID
				repo.On("FindByID", mock.Anything, TestOrderID).Return(paid, nil)
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.StatusPaid, o.Status)
				assert.True(t, o.Payment.Captured)
			},
		},
		{
			name: "invalid replay never downgrades a paid order",
			input: func() VerifyPaymentInput {
				in := validInput()
				in.GatewaySignature = tamper(in.GatewaySignature)
				return in
			}(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				paid := CreateTestOrder(TestOrderID, TestUserID, domain.StatusPaid, 900)
				paid.Payment.Captured = true
				repo.On("FindByID", mock.Anything, TestOrderID).Return(paid, nil)
			},
			expectedError: ErrSignatureMismatch,
		},
		{
			name:  "fulfilled order is not awaiting payment",
			input: validInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				repo.On("FindByID", mock.Anything, TestOrderID).
					Return(CreateTestOrder(TestOrderID, TestUserID, domain.StatusDelivered, 900), nil)
			},
			expectedError: ErrOrderNotAwaitingPayment,
		},
		{
			name:  "lost race but order landed paid counts as success",
			input: validInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				created := CreateTestOrder(TestOrderID, TestUserID, domain.StatusCreated, 900)
				paid := CreateTestOrder(TestOrderID, TestUserID, domain.StatusPaid, 900)
				paid.Payment.Captured = true
				repo.On("FindByID", mock.Anything, TestOrderID).Return(created, nil).Once()
				repo.On("UpdateStatusFrom", mock.Anything, TestOrderID, domain.StatusCreated, domain.StatusPaid, mock.Anything).
					Return(false, nil)
				repo.On("FindByID", mock.Anything, TestOrderID).Return(paid, nil).Once()
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.StatusPaid, o.Status)
			},
		},
		{
			name:  "lost race against cancellation yields not found",
			input: validInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				created := CreateTestOrder(TestOrderID, TestUserID, domain.StatusCreated, 900)
				repo.On("FindByID", mock.Anything, TestOrderID).Return(created, nil).Once()
				repo.On("UpdateStatusFrom", mock.Anything, TestOrderID, domain.StatusCreated, domain.StatusPaid, mock.Anything).
					Return(false, nil)
				repo.On("FindByID", mock.Anything, TestOrderID).Return(nil, nil).Once()
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			mockPub := new(mocks.MockPublisher)
			tt.setupMocks(mockRepo, mockPub)

			service := newTestService(mockRepo, new(mocks.MockProductClient), new(mocks.MockGatewayClient), mockPub, PricingPolicy{})

			order, err := service.VerifyPayment(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				if tt.check != nil {
					tt.check(t, order)
				}
			}

			time.Sleep(50 * time.Millisecond)
			mockRepo.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

// Replaying the same valid payload twice must leave the order paid both times.
func TestOrderService_VerifyPayment_Idempotent(t *testing.T) {
	in := validInput()

	mockRepo := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)

	created := CreateTestOrder(TestOrderID, TestUserID, domain.StatusCreated, 900)
	paid := CreateTestOrder(TestOrderID, TestUserID, domain.StatusPaid, 900)
	paid.Payment.Captured = true
	paid.Payment.GatewayPaymentID = TestPaymentID
	paid.Payment.GatewaySignature = in.GatewaySignature

	mockRepo.On("FindByID", mock.Anything, TestOrderID).Return(created, nil).Once()
	mockRepo.On("UpdateStatusFrom", mock.Anything, TestOrderID, domain.StatusCreated, domain.StatusPaid, mock.Anything).
		Return(true, nil).Once()
	mockRepo.On("FindByID", mock.Anything, TestOrderID).Return(paid, nil).Once()
	mockPub.On("Publish", mock.Anything, domain.EventOrderPaid, mock.Anything).Return(nil).Maybe()

	service := newTestService(mockRepo, new(mocks.MockProductClient), new(mocks.MockGatewayClient), mockPub, PricingPolicy{})

	first, err := service.VerifyPayment(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, first.Status)

	second, err := service.VerifyPayment(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, second.Status)
	assert.True(t, second.Payment.Captured)

	time.Sleep(50 * time.Millisecond)
	mockRepo.AssertExpectations(t)
}
