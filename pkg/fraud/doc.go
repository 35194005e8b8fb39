// Package fraud trains and applies an insurance-claim fraud classifier.
//
// A pipeline scales claim amount and claimant age, turns the incident
// description into TF-IDF features and feeds both to a gradient-boosted
// tree ensemble. Train fits and saves a pipeline; Load reads one back.
//
// Quick start:
//
//	res, err := fraud.Train(ctx,
//	    fraud.WithData("data/claims.csv"),
//	    fraud.WithArtifact("app/model_pipeline.bin"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("AUC:", res.AUC)
//
//	m, _ := fraud.Load(res.Artifact)
//	scores, _ := m.Score([]fraud.Claim{{Amount: 25000, Age: 23, Description: "vehicle stolen overnight"}})
//	fmt.Println(scores[0].Fraud)
//
// A loaded Model is safe for concurrent use.
package fraud
