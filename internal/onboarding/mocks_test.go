package onboarding

import (
	"context"

	"ArthaOnboard/internal/core/domain"
	"ArthaOnboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockSessionStore
type MockSessionStore struct {
	mock.Mock
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func (m *MockSessionStore) Create(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) Acquire(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) Release(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCompletionClient
type MockCompletionClient struct {
	mock.Mock

	// streamChunks, when set, is how CompleteStream slices its reply
	// into deltas. By default the full reply arrives as one delta.
	streamChunks []string
}

var _ ports.CompletionClient = (*MockCompletionClient)(nil)

func (m *MockCompletionClient) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionClient) CompleteStream(ctx context.Context, req ports.CompletionRequest, onDelta func(delta string) error) (string, error) {
	args := m.Called(ctx, req)
	if err := args.Error(1); err != nil {
		return "", err
	}
	full := args.String(0)
	chunks := m.streamChunks
	if len(chunks) == 0 {
		chunks = []string{full}
	}
	if onDelta != nil {
		for _, chunk := range chunks {
			if err := onDelta(chunk); err != nil {
				return "", err
			}
		}
	}
	return full, nil
}

// MockDocumentVerifier
type MockDocumentVerifier struct {
	mock.Mock
}

var _ ports.DocumentVerifier = (*MockDocumentVerifier)(nil)

func (m *MockDocumentVerifier) VerifyDocument(ctx context.Context, image []byte, mediaType, qrPayload, panNumber string) (*domain.DocumentVerificationResult, error) {
	args := m.Called(ctx, image, mediaType, qrPayload, panNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentVerificationResult), args.Error(1)
}

// MockFaceVerifier
type MockFaceVerifier struct {
	mock.Mock
}

var _ ports.FaceVerifier = (*MockFaceVerifier)(nil)

func (m *MockFaceVerifier) VerifyFace(ctx context.Context, live []byte, liveType string, reference []byte, refType string) (*domain.FaceVerificationResult, error) {
	args := m.Called(ctx, live, liveType, reference, refType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FaceVerificationResult), args.Error(1)
}

// MockDeliverabilityChecker
type MockDeliverabilityChecker struct {
	mock.Mock
}

var _ ports.DeliverabilityChecker = (*MockDeliverabilityChecker)(nil)

func (m *MockDeliverabilityChecker) CheckEmail(ctx context.Context, address string) (*ports.DeliverabilityVerdict, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DeliverabilityVerdict), args.Error(1)
}

func (m *MockDeliverabilityChecker) CheckPhone(ctx context.Context, number string) (*ports.DeliverabilityVerdict, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DeliverabilityVerdict), args.Error(1)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

var _ ports.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockQRDecoder
type MockQRDecoder struct {
	mock.Mock
}

var _ ports.QRDecoder = (*MockQRDecoder)(nil)

func (m *MockQRDecoder) Decode(image []byte) (string, error) {
	args := m.Called(image)
	return args.String(0), args.Error(1)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

var _ ports.EventBus = (*MockEventBus)(nil)

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}
