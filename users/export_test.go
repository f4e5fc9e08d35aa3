package users

var TimingHash = timingHash
