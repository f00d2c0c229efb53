package train

import (
	"errors"
	"testing"

	"github.com/hurttlocker/yomail/internal/crf"
)

func sampleDocument() (string, []LineLabel) {
	text := "いつもお世話になっております。\n本文の内容です。\nよろしくお願いいたします。"
	labels := []LineLabel{
		{Text: "いつもお世話になっております。", Label: crf.Greeting},
		{Text: "本文の内容です。", Label: crf.Body},
		{Text: "よろしくお願いいたします。", Label: crf.Closing},
	}
	return text, labels
}

func TestAddDocumentAndTrainProducesModel(t *testing.T) {
	trainer := NewCRFTrainer(DefaultConfig())
	text, labels := sampleDocument()
	if err := trainer.AddDocument(text, labels); err != nil {
		t.Fatalf("AddDocument() error: %v", err)
	}
	if trainer.NumSequences() != 1 {
		t.Fatalf("NumSequences() = %d, want 1", trainer.NumSequences())
	}

	model, err := trainer.Train()
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if model == nil {
		t.Fatal("Train() returned a nil model")
	}
}

func TestAddDocumentRejectsLineCountMismatch(t *testing.T) {
	trainer := NewCRFTrainer(DefaultConfig())
	text, labels := sampleDocument()
	err := trainer.AddDocument(text, labels[:1])
	if err == nil {
		t.Fatal("expected an error for a mismatched label count")
	}
}

func TestTrainWithoutDocumentsErrors(t *testing.T) {
	trainer := NewCRFTrainer(DefaultConfig())
	if _, err := trainer.Train(); err == nil {
		t.Fatal("expected an error training with no documents")
	}
}

func TestTrainUnsupportedAlgorithmReportsTypedError(t *testing.T) {
	trainer := NewCRFTrainer(Config{Algorithm: "lbfgs"})
	text, labels := sampleDocument()
	if err := trainer.AddDocument(text, labels); err != nil {
		t.Fatalf("AddDocument() error: %v", err)
	}

	_, err := trainer.Train()
	var notImpl *ErrAlgorithmNotImplemented
	if !errors.As(err, &notImpl) {
		t.Fatalf("expected *ErrAlgorithmNotImplemented, got %T: %v", err, err)
	}
}
